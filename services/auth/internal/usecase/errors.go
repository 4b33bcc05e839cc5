package usecase

import (
	"errors"
	"strings"
)

// Messages are shown to end users as-is.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// callers cannot tell the two apart.
	ErrInvalidCredentials = errors.New("Credenciales inválidas")
	ErrAccountSuspended   = errors.New("⛔ Tu cuenta ha sido suspendida.")
	ErrEmailTaken         = errors.New("Ya existe una cuenta con este email")
	ErrUserNotFound       = errors.New("Usuario no encontrado")
	ErrStorageUnavailable = errors.New("El almacenamiento de avatares no está disponible")
)

// SuspendedError is returned by Login for banned users. It matches
// ErrAccountSuspended under errors.Is.
type SuspendedError struct {
	Reason string
}

func (e *SuspendedError) Error() string {
	var b strings.Builder
	b.WriteString(ErrAccountSuspended.Error())
	if e.Reason != "" {
		b.WriteString("\n\nMotivo: ")
		b.WriteString(e.Reason)
	}
	b.WriteString("\n\nSi crees que esto es un error, contacta con el administrador.")
	return b.String()
}

func (e *SuspendedError) Is(target error) bool {
	return target == ErrAccountSuspended
}
