package model

// RegisterParams is a registration request after transport-level validation.
// Origin is the externally visible scheme://host the verification link points at.
type RegisterParams struct {
	Email    string
	Username string
	Password string
	Origin   string
}

// RegisterResult is the outcome of a successful registration. EmailSent is
// false when the user was created but the verification email could not be
// delivered.
type RegisterResult struct {
	User      PublicUser
	EmailSent bool
}

// VerifyEmailResult is returned after a verification token was accepted.
type VerifyEmailResult struct {
	User        PublicUser
	Credentials CredentialPair
}
