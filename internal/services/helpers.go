package services

import "github.com/google/uuid"

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, ErrValidation("invalid id")
	}
	return parsed, nil
}
