package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/simmas/internal/auth"
	dudiDatamodel "github.com/frahmantamala/simmas/internal/core/datamodel/dudi"
	logbookDatamodel "github.com/frahmantamala/simmas/internal/core/datamodel/logbook"
	magangDatamodel "github.com/frahmantamala/simmas/internal/core/datamodel/magang"
	userDatamodel "github.com/frahmantamala/simmas/internal/core/datamodel/user"
	"github.com/frahmantamala/simmas/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const seedPassword = "password"

var clearData bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample accounts and partners for development. Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to init db: %w", err)
		}
		defer closeDB(db)

		return seed(db, auth.NewPasswordHasher(cfg.Security.BCryptCost), clearData, logger.LoggerWrapper())
	},
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
}

type seedAccount struct {
	email string
	name  string
	role  auth.Role
}

var seedAccounts = []seedAccount{
	{"admin@simmas.com", "Administrator", auth.RoleAdmin},
	{"guru@simmas.com", "Sari Wulandari", auth.RoleGuru},
	{"siswa@simmas.com", "Budi Santoso", auth.RoleSiswa},
}

var seedDudi = []dudiDatamodel.Dudi{
	{
		NamaPerusahaan:  "PT Teknologi Nusantara",
		Alamat:          "Jl. Gatot Subroto No. 12, Jakarta",
		Telepon:         "021-5551234",
		Email:           "hrd@teknusa.co.id",
		PenanggungJawab: "Rina Kusuma",
		KuotaMagang:     5,
		Status:          "aktif",
	},
	{
		NamaPerusahaan:  "CV Kreatif Digital",
		Alamat:          "Jl. Malioboro No. 45, Yogyakarta",
		Telepon:         "0274-556677",
		Email:           "info@kreatifdigital.id",
		PenanggungJawab: "Agus Pratama",
		KuotaMagang:     2,
		Status:          "aktif",
	},
}

// seed inserts the demo accounts, their profiles and partners. Existing rows
// are matched by natural key and left untouched.
func seed(db *gorm.DB, hasher *auth.PasswordHasher, clear bool, lg *slog.Logger) error {
	hash, err := hasher.Hash(seedPassword)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if clear {
			for _, model := range []interface{}{
				&logbookDatamodel.Logbook{},
				&magangDatamodel.Magang{},
				&dudiDatamodel.Dudi{},
				&userDatamodel.Siswa{},
				&userDatamodel.Guru{},
				&userDatamodel.User{},
			} {
				if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
					return fmt.Errorf("clear %T: %w", model, err)
				}
			}
			lg.Info("cleared existing data")
		}

		for _, acc := range seedAccounts {
			u := userDatamodel.User{}
			if err := tx.Where(userDatamodel.User{Email: acc.email}).
				Attrs(userDatamodel.User{Name: acc.name, Role: string(acc.role), PasswordHash: hash, IsActive: true}).
				FirstOrCreate(&u).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", acc.email, err)
			}

			switch acc.role {
			case auth.RoleGuru:
				g := userDatamodel.Guru{}
				if err := tx.Where(userDatamodel.Guru{UserID: u.ID}).
					Attrs(userDatamodel.Guru{NIP: "198501012010011001", Telepon: "081234567890"}).
					FirstOrCreate(&g).Error; err != nil {
					return fmt.Errorf("seed guru profile: %w", err)
				}
			case auth.RoleSiswa:
				s := userDatamodel.Siswa{}
				if err := tx.Where(userDatamodel.Siswa{UserID: u.ID}).
					Attrs(userDatamodel.Siswa{NIS: "2024001", Kelas: "XII RPL 1", Jurusan: "Rekayasa Perangkat Lunak"}).
					FirstOrCreate(&s).Error; err != nil {
					return fmt.Errorf("seed siswa profile: %w", err)
				}
			}
			lg.Info("seeded user", "email", acc.email, "role", acc.role)
		}

		for _, d := range seedDudi {
			row := dudiDatamodel.Dudi{}
			if err := tx.Where(dudiDatamodel.Dudi{NamaPerusahaan: d.NamaPerusahaan}).
				Attrs(d).
				FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("seed dudi %s: %w", d.NamaPerusahaan, err)
			}
			lg.Info("seeded dudi", "nama_perusahaan", d.NamaPerusahaan, "kuota", d.KuotaMagang)
		}

		lg.Info("seeding finished", "at", time.Now().UTC())
		return nil
	})
}
