package stabilizer

// Status is the coarse, UI-facing classification of a scanning session
type Status string

const (
	StatusDetecting Status = "detecting"
	StatusStable    Status = "stable"
	StatusDark      Status = "dark"
	StatusBlurry    Status = "blurry"
	StatusTilted    Status = "tilted"
	StatusError     Status = "error"
)

// Statuses lists every status value
var Statuses = []Status{
	StatusDetecting,
	StatusStable,
	StatusDark,
	StatusBlurry,
	StatusTilted,
	StatusError,
}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusDetecting, StatusStable, StatusDark, StatusBlurry, StatusTilted, StatusError:
		return true
	}
	return false
}

// Hint returns the camera overlay message for the status
func (s Status) Hint() string {
	switch s {
	case StatusDetecting:
		return "Mendeteksi struk..."
	case StatusStable:
		return "Struk terdeteksi"
	case StatusDark:
		return "Cahaya terlalu gelap"
	case StatusBlurry:
		return "Gambar buram, tahan kamera"
	case StatusTilted:
		return "Luruskan posisi struk"
	case StatusError:
		return "Gagal memproses gambar"
	default:
		return ""
	}
}

func (s Status) String() string {
	return string(s)
}
