package assessments

import "errors"

var (
	ErrNotFound          = errors.New("assessment not found")
	ErrDraftNotFound     = errors.New("assessment draft not found")
	ErrFamilyNotApproved = errors.New("family is not approved")
)
