// Package pages holds the HTML pages served by the rex server.
package pages

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate

// UploadData is rendered by Upload.
type UploadData struct {
	WideName string
	LongName string

	// MaxUpload is the human-readable upload limit, e.g. "32 MiB".
	MaxUpload string
}
