// Package datamodeltest opens migrated in-memory SQLite databases and
// inserts fixture rows for repository, service and handler tests.
package datamodeltest

import (
	"fmt"
	"time"

	dudiDatamodel "github.com/frahmantamala/simmas/internal/core/datamodel/dudi"
	logbookDatamodel "github.com/frahmantamala/simmas/internal/core/datamodel/logbook"
	magangDatamodel "github.com/frahmantamala/simmas/internal/core/datamodel/magang"
	userDatamodel "github.com/frahmantamala/simmas/internal/core/datamodel/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open returns a migrated in-memory database. The pool is pinned to a single
// connection: every new connection to ":memory:" would see an empty database,
// and it makes concurrent transactions run one after another.
func Open() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(
		&userDatamodel.User{},
		&userDatamodel.Siswa{},
		&userDatamodel.Guru{},
		&dudiDatamodel.Dudi{},
		&magangDatamodel.Magang{},
		&logbookDatamodel.Logbook{},
	); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return db, nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func CreateUser(db *gorm.DB, email, name, role, passwordHash string) (*userDatamodel.User, error) {
	u := &userDatamodel.User{
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: passwordHash,
		IsActive:     true,
	}
	if err := db.Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// CreateSiswaUser inserts a siswa account together with its profile row.
func CreateSiswaUser(db *gorm.DB, email, nis string) (*userDatamodel.User, *userDatamodel.Siswa, error) {
	u, err := CreateUser(db, email, "Siswa "+nis, "siswa", "x")
	if err != nil {
		return nil, nil, err
	}
	s := &userDatamodel.Siswa{UserID: u.ID, NIS: nis, Kelas: "XII RPL 1", Jurusan: "RPL"}
	if err := db.Create(s).Error; err != nil {
		return nil, nil, err
	}
	return u, s, nil
}

// CreateGuruUser inserts a guru account together with its profile row.
func CreateGuruUser(db *gorm.DB, email, nip string) (*userDatamodel.User, *userDatamodel.Guru, error) {
	u, err := CreateUser(db, email, "Guru "+nip, "guru", "x")
	if err != nil {
		return nil, nil, err
	}
	g := &userDatamodel.Guru{UserID: u.ID, NIP: nip}
	if err := db.Create(g).Error; err != nil {
		return nil, nil, err
	}
	return u, g, nil
}

func CreateDudi(db *gorm.DB, name string, kuota int, status string) (*dudiDatamodel.Dudi, error) {
	d := &dudiDatamodel.Dudi{
		NamaPerusahaan:  name,
		Alamat:          "Jl. Industri No. 1",
		PenanggungJawab: "HRD",
		KuotaMagang:     kuota,
		Status:          status,
	}
	if err := db.Create(d).Error; err != nil {
		return nil, err
	}
	return d, nil
}

func CreateMagang(db *gorm.DB, siswaID, dudiID, guruID int64, status string, mulai, selesai time.Time) (*magangDatamodel.Magang, error) {
	m := &magangDatamodel.Magang{
		SiswaID:        siswaID,
		DudiID:         dudiID,
		GuruID:         guruID,
		Status:         status,
		TanggalMulai:   mulai,
		TanggalSelesai: selesai,
	}
	if err := db.Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}
