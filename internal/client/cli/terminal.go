package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/primepost/internal/client/biometric"
	"github.com/go-webauthn/webauthn/protocol"
	"github.com/google/uuid"
)

// terminalAuthenticator stands in for the platform credential dialog when
// biometric mode is "prompt": the user confirms presence at the terminal.
// Answering no counts as dismissing the dialog.
type terminalAuthenticator struct {
	app *App
}

func (t *terminalAuthenticator) Create(ctx context.Context, opts protocol.PublicKeyCredentialCreationOptions) ([]byte, error) {
	ok, err := GetConfirmation(t.app.reader, fmt.Sprintf("[%s] Register this device for biometric unlock?", opts.RelyingParty.Name), t.app.out)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, biometric.ErrNotAllowed
	}
	id := uuid.New()
	return id[:], nil
}

func (t *terminalAuthenticator) Get(ctx context.Context, opts protocol.PublicKeyCredentialRequestOptions) error {
	if len(opts.AllowedCredentials) == 0 {
		return biometric.ErrNotEnrolled
	}
	ok, err := GetConfirmation(t.app.reader, "Touch the sensor to continue (confirm)?", t.app.out)
	if err != nil {
		return err
	}
	if !ok {
		return biometric.ErrNotAllowed
	}
	return nil
}
