// Package templates holds the templ components for the encoding task pages.
// Edit the .templ sources and regenerate the _templ.go files.
package templates

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate
