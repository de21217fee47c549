package model

// Preset is a fixed dashboard card: a named run request rendered on the home dashboards.
type Preset struct {
	Name    string     `json:"name" validate:"required,max=64"`
	Title   string     `json:"title"`
	Request RunRequest `json:"request" validate:"required"`
}
