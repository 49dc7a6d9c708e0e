package user

import (
	"time"

	"github.com/frahmantamala/simmas/internal"
)

var (
	ErrUserNotFound    = internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	ErrProfileNotFound = internal.NewForbiddenError("no profile is linked to this account", internal.ErrCodeProfileMissing)
)

// User is the account row without its password hash.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SiswaProfile struct {
	ID      int64  `json:"id"`
	NIS     string `json:"nis"`
	Kelas   string `json:"kelas"`
	Jurusan string `json:"jurusan"`
	Alamat  string `json:"alamat,omitempty"`
	Telepon string `json:"telepon,omitempty"`
}

type GuruProfile struct {
	ID      int64  `json:"id"`
	NIP     string `json:"nip"`
	Alamat  string `json:"alamat,omitempty"`
	Telepon string `json:"telepon,omitempty"`
}

// Profile is a user together with the role-specific record, if any.
type Profile struct {
	User
	Siswa *SiswaProfile `json:"siswa,omitempty"`
	Guru  *GuruProfile  `json:"guru,omitempty"`
}
