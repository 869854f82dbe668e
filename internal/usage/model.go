package usage

// Usage is a client's free-tier consumption snapshot.
type Usage struct {
	Used  int `json:"used"`
	Limit int `json:"limit"`
}

// Remaining returns the quota left, never negative.
func (u Usage) Remaining() int {
	if r := u.Limit - u.Used; r > 0 {
		return r
	}
	return 0
}
