package usecase

import "errors"

// Messages are shown to end users as-is.
var (
	ErrPostNotFound    = errors.New("Post no encontrado")
	ErrCommentNotFound = errors.New("Comentario no encontrado")
	ErrEmptyContent    = errors.New("El contenido del comentario no puede estar vacío")

	// ErrForbidden matches both ErrEditForbidden and ErrDeleteForbidden.
	ErrForbidden = errors.New("forbidden")

	ErrEditForbidden   error = &forbiddenError{msg: "No tienes permiso para editar este comentario"}
	ErrDeleteForbidden error = &forbiddenError{msg: "No tienes permiso para eliminar este comentario"}
)

type forbiddenError struct {
	msg string
}

func (e *forbiddenError) Error() string { return e.msg }

func (e *forbiddenError) Is(target error) bool { return target == ErrForbidden }
