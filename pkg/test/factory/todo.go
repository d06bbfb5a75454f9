package factory

import (
	"fmt"
	"time"

	"usertodos/internal/core/domain"

	fab "github.com/Goldziher/fabricator"
)

func NewTodo(customData ...map[string]any) domain.Todo {
	n := sequence.Add(1)

	defaults := map[string]any{
		"ID":        0,
		"Label":     fmt.Sprintf("todo %d", n),
		"CreatedAt": time.Now().UTC(),
	}

	return fab.New(domain.Todo{}).Build(merge(defaults, customData...))
}
