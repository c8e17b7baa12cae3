package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// API errors
	ErrFetchFailed = fmt.Errorf("IGDB API request failed")

	// Storage and file errors
	ErrStorage  = fmt.Errorf("storage failure")
	ErrIO       = fmt.Errorf("i/o failure")
	ErrNotFound = fmt.Errorf("not found")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrCanceled        = fmt.Errorf("canceled by user")
)
