package command

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sandevgo/parley/internal/core"
)

type StatusCommand struct {
	status    core.StatusReporter
	formatter *ResponseFormatter
}

func NewStatusCommand(status core.StatusReporter) *StatusCommand {
	return &StatusCommand{
		status:    status,
		formatter: NewResponseFormatter(),
	}
}

func (c *StatusCommand) Name() string {
	return "status"
}

func (c *StatusCommand) Description() string {
	return "Show configured models, storage and sources"
}

func (c *StatusCommand) Execute(_ context.Context, _ string, _ []string) (string, error) {
	st := c.status.Status()

	models := "local brain only"
	if len(st.Models) > 0 {
		models = strings.Join(st.Models, " → ")
	}
	embedder := st.Embedder
	if embedder == "" {
		embedder = "lexical matching"
	}

	sections := []string{
		c.formatter.Info(st.Name + " " + st.Version),
		c.formatter.Label("Models", models),
		c.formatter.Label("Storage", st.Storage),
		c.formatter.Label("Embeddings", embedder),
	}

	if st.Knowledge != nil {
		data, err := json.Marshal(st.Knowledge)
		if err != nil {
			return "", err
		}
		sections = append(sections, c.formatter.Label("Knowledge", string(data)))
	}

	return c.formatter.Combine(sections...), nil
}
