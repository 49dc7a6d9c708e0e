package logbook

type SubmitDTO struct {
	Tanggal  string `json:"tanggal" validate:"required,datetime=2006-01-02"`
	Kegiatan string `json:"kegiatan" validate:"required,max=2000"`
	Kendala  string `json:"kendala,omitempty" validate:"max=2000"`
}

type VerifyDTO struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
	Catatan  string `json:"catatan,omitempty" validate:"max=1000"`
}
