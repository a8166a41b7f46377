package entity

import "errors"

var (
	ErrCadenceNotFound   = errors.New("cadence não encontrada")
	ErrFieldMapNotFound  = errors.New("field map não configurado para a empresa")
	ErrUserNotFound      = errors.New("usuário não encontrado")
	ErrLeadAlreadyExists = errors.New("lead já existe para este external_id")
	ErrLinkAlreadyExists = errors.New("lead já vinculado a esta cadência")
)
