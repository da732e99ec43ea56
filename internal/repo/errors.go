package repo

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate — нарушено ограничение уникальности.
	ErrDuplicate = errors.New("duplicate key")
	// ErrCategoryMissing — элемент галереи ссылается на несуществующую категорию.
	ErrCategoryMissing = errors.New("referenced category does not exist")
	// ErrCategoryInUse — категория используется элементами галереи.
	ErrCategoryInUse = errors.New("category is referenced by gallery items")
)

// translate приводит ошибки gorm/драйверов к ошибкам пакета.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

// isUniqueViolation распознаёт нарушение уникальности для postgres и sqlite (modernc не переводится gorm).
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}
