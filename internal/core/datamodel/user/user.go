package user

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	Name         string    `gorm:"column:name;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         string    `gorm:"column:role;not null"`
	IsActive     bool      `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

type Siswa struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;uniqueIndex;not null"`
	NIS       string    `gorm:"column:nis;uniqueIndex;not null"`
	Kelas     string    `gorm:"column:kelas"`
	Jurusan   string    `gorm:"column:jurusan"`
	Alamat    string    `gorm:"column:alamat"`
	Telepon   string    `gorm:"column:telepon"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Siswa) TableName() string {
	return "siswa"
}

type Guru struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;uniqueIndex;not null"`
	NIP       string    `gorm:"column:nip;uniqueIndex;not null"`
	Alamat    string    `gorm:"column:alamat"`
	Telepon   string    `gorm:"column:telepon"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Guru) TableName() string {
	return "guru"
}
