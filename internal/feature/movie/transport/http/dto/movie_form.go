// Package dto defines the form payloads of the movie feature.
package dto

// MovieForm is the create and edit form for a movie.
// Lengths are counted in characters and values are kept as submitted.
type MovieForm struct {
	Title string `form:"title" binding:"required,notblank,max=60"`
	Year  string `form:"year" binding:"required,notblank,max=4"`
}
