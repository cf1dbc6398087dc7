package identity

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"restro/pkg/domain/model"
)

func NewPasswordManager(cost int) model.PasswordManager {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &passwordManager{cost: cost}
}

type passwordManager struct {
	cost int
}

func (m *passwordManager) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), m.cost)
	if err != nil {
		return "", errors.Wrap(err, "failed to hash password")
	}
	return string(hash), nil
}

func (m *passwordManager) Check(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
