package resolver

import (
	"encoding/json"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Authenticated is implemented by args that carry a token.
type Authenticated interface {
	AuthToken() string
}

// TokenArg is embedded by authenticated args. An empty token is not a
// decoding error; the gate rejects it.
type TokenArg struct {
	Token string `json:"token"`
}

func (t TokenArg) AuthToken() string { return t.Token }

type NoArgs struct{}

var errBadID = errors.New("id must be a string or an integer")

// ID is an identifier argument. Clients may send it as a JSON string or integer.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errBadID
	}
	if _, err := n.Int64(); err != nil {
		return errBadID
	}
	*id = ID(n.String())
	return nil
}

// Required fields are pointers so that presence can be told apart from an
// empty value. Only presence is checked here; values are up to the service.

type PostIDArgs struct {
	ID *ID `json:"id"`
	TokenArg
}

func (a PostIDArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.ID, validation.NotNil),
	)
}

func (a PostIDArgs) id() string { return derefID(a.ID) }

type CreatePostArgs struct {
	Content *string `json:"content"`
	TokenArg
}

func (a CreatePostArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Content, validation.NotNil),
	)
}

type UpdatePostArgs struct {
	ID      *ID     `json:"id"`
	Content *string `json:"content"`
	TokenArg
}

func (a UpdatePostArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.ID, validation.NotNil),
		validation.Field(&a.Content, validation.NotNil),
	)
}

type UserInput struct {
	Username  *string `json:"username"`
	Password  *string `json:"password"`
	Age       *int    `json:"age,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}

func (in UserInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Username, validation.NotNil),
		validation.Field(&in.Password, validation.NotNil),
	)
}

type CreateUserArgs struct {
	Input *UserInput `json:"input"`
}

func (a CreateUserArgs) Validate() error {
	return validation.ValidateStruct(&a, validation.Field(&a.Input, validation.NotNil))
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginArgs is not validated: blank credentials get the same answer as wrong ones.
type LoginArgs struct {
	Input Credentials `json:"input"`
}

func derefID(id *ID) string {
	if id == nil {
		return ""
	}
	return string(*id)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
