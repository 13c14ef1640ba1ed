package dto

import "errors"

// Custom errors
var (
	ErrNoInput        = errors.New("no file or text provided")
	ErrNoAmountsFound = errors.New("no numeric tokens found in document")
)

// ProcessTextRequest is the JSON body alternative to a file upload.
type ProcessTextRequest struct {
	Text string `json:"text" binding:"required"`
}
