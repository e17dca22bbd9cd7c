// Package errs classifies failures at the CLI boundary with go-errors
// categories. Engine transforms are total and never produce errors.
package errs

import (
	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to classified errors.
const (
	CodeRequestInvalid = "NOTE_REQUEST_INVALID"
	CodeFileRead       = "NOTE_FILE_READ_FAILED"
	CodeFileWrite      = "NOTE_FILE_WRITE_FAILED"
	CodeClipboard      = "NOTE_CLIPBOARD_FAILED"
	CodeConfig         = "NOTE_CONFIG_INVALID"
	CodeEditor         = "NOTE_EDITOR_FAILED"
)

// Invalid marks err as a bad request: flags, payloads or note files that
// cannot be interpreted.
func Invalid(err error, msg string) error {
	return classify(err, goerrors.CategoryValidation, msg, CodeRequestInvalid)
}

// Failed marks err as an I/O failure with the given text code.
func Failed(err error, msg, code string) error {
	return classify(err, goerrors.CategoryCommand, msg, code)
}

func classify(err error, category goerrors.Category, msg, code string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, msg).WithTextCode(code)
}

// IsInvalid reports whether err was classified as a bad request.
func IsInvalid(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryValidation)
}

// ExitCode maps err to a process exit status: 0 for nil, 2 for bad requests,
// 1 otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case IsInvalid(err):
		return 2
	default:
		return 1
	}
}
