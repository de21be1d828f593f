package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ISQM/internal/history"
	"ISQM/internal/repo"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCalculatorCommandsRegistered(t *testing.T) {
	for _, name := range []string{"beam", "column", "slab", "soffit", "rebar", "concrete", "formwork", "migrate", "institutions", "history"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestConcreteCommand(t *testing.T) {
	out, _, err := run(t, "concrete", "--length", "2", "--width", "1", "--height", "0.5")
	require.NoError(t, err)
	assert.Contains(t, out, "Concrete Slab/Beam")
	assert.Contains(t, out, "Result: 1.000 m³")
}

func TestBeamCommandReportsFieldErrors(t *testing.T) {
	_, errOut, err := run(t, "beam", "--b", "0.3", "--h=-1")
	assert.ErrorIs(t, err, errInvalidInput)
	assert.Contains(t, errOut, "--h: Enter a number greater than 0.")
	assert.Contains(t, errOut, "--L: This field is required.")
}

func TestSoffitCommandJSON(t *testing.T) {
	out, _, err := run(t, "soffit", "--length", "2", "--width", "1", "--thickness", "0.1", "--json")
	require.NoError(t, err)
	var got struct {
		Inputs  map[string]float64 `json:"inputs"`
		Outputs map[string]float64 `json:"outputs"`
		Unit    string             `json:"unit"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Contains(t, got.Outputs, "soffit_m2")
	assert.Equal(t, "m2", got.Unit)
}

func TestUnsupportedLanguage(t *testing.T) {
	_, _, err := run(t, "rebar", "--lang", "fr")
	assert.ErrorContains(t, err, "unsupported language")
	langFlag = "en"
}

func TestListHistory(t *testing.T) {
	logger = zap.NewNop()
	store := repo.NewMemory()
	_, err := store.InsertCalculation(context.Background(), repo.Calculation{
		UserID: "u1", Type: "concrete", Label: "Concrete Slab/Beam", Result: 1.5, Unit: "m³",
		Inputs: map[string]float64{"length": 3},
	})
	require.NoError(t, err)
	_, err = store.InsertCalculation(context.Background(), repo.Calculation{UserID: "u2", Type: "beam", Label: "Beam QM"})
	require.NoError(t, err)

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())

	historyUser, historyType, historyFrom, historyTo = "u1", "all", "", time.Now().Format("2006-01-02")
	t.Cleanup(func() { historyUser, historyType, historyTo = "", "", "" })

	require.NoError(t, listHistory(cmd, history.NewService(store, zap.NewNop())))
	assert.Contains(t, out.String(), "Concrete Slab/Beam")
	assert.Contains(t, out.String(), "1.500 m³")
	assert.Contains(t, out.String(), "1 entries")

	historyUser = ""
	assert.Error(t, listHistory(cmd, history.NewService(store, zap.NewNop())))
}
