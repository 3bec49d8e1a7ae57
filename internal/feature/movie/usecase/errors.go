package usecase

import "errors"

// ErrMovieNotFound is returned when no movie has the requested ID.
var ErrMovieNotFound = errors.New("movie not found")
