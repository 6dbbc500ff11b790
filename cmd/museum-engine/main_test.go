package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/museum-engine/pkg/types"
)

func TestWithDefaultCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"no args", []string{}, []string{}},
		{"subcommand", []string{"load", "--museum", "met"}, []string{"load", "--museum", "met"}},
		{"sync subcommand", []string{"sync", "queries/monet.yaml"}, []string{"sync", "queries/monet.yaml"}},
		{"bare search flags", []string{"--query", "monet", "--save"}, []string{"search", "--query", "monet", "--save"}},
		{"bool flag first", []string{"--save", "--query", "monet"}, []string{"search", "--save", "--query", "monet"}},
		{"shorthand", []string{"-q", "monet"}, []string{"search", "-q", "monet"}},
		{"global flag before subcommand", []string{"--log-level", "debug", "load"}, []string{"--log-level", "debug", "load"}},
		{"config before subcommand", []string{"--config", "alt.yaml", "sources"}, []string{"--config", "alt.yaml", "sources"}},
		{"help", []string{"--help"}, []string{"--help"}},
		{"positional", []string{"monet"}, []string{"monet"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, withDefaultCommand(rootCmd, tt.args))
		})
	}
}

func newFilterCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "search"}
	addFilterFlags(cmd)
	cmd.Flags().StringP("query", "q", "", "")
	cmd.Flags().IntP("limit", "n", types.DefaultLimit, "")
	cmd.Flags().Bool("has-image", false, "")
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestFilterFromFlags(t *testing.T) {
	cmd := newFilterCmd(t,
		"-q", "water", "--limit", "5",
		"--museum", "met,aic",
		"--artist", "Monet, Claude", "--artist", "Hokusai",
		"--genre", "Impressionism",
		"--medium", "oil", "--classification", "Paintings",
		"--from", "1850", "--to", "1910",
		"--has-image",
		"lilies",
	)

	f, err := filterFromFlags(cmd, cmd.Flags().Args())
	require.NoError(t, err)
	assert.Equal(t, "water lilies", f.Query)
	assert.Equal(t, 5, f.Limit)
	assert.Equal(t, []string{"met", "aic"}, f.Museums)
	assert.Equal(t, []string{"Monet, Claude", "Hokusai"}, f.Artists, "artist values keep their commas")
	assert.Equal(t, []string{"Impressionism"}, f.Genres)
	assert.Equal(t, []string{"oil"}, f.Mediums)
	assert.Equal(t, []string{"Paintings"}, f.Classifications)
	assert.Equal(t, &types.DateRange{Start: types.Year(1850), End: types.Year(1910)}, f.DateRange)
	assert.True(t, f.HasImageOnly)
}

func TestFilterFromFlagsDefaults(t *testing.T) {
	cmd := newFilterCmd(t)
	f, err := filterFromFlags(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, "", f.Query)
	assert.Equal(t, types.DefaultLimit, f.Limit)
	assert.Nil(t, f.DateRange)
	assert.Empty(t, f.Museums)
}

func TestFilterFromFlagsOpenRange(t *testing.T) {
	cmd := newFilterCmd(t, "--to", "1500")
	f, err := filterFromFlags(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, &types.DateRange{End: types.Year(1500)}, f.DateRange)
}

func TestFilterFromFlagsYearZero(t *testing.T) {
	cmd := newFilterCmd(t, "--from", "0", "--to", "100")
	f, err := filterFromFlags(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, &types.DateRange{Start: types.Year(0), End: types.Year(100)}, f.DateRange)

	cmd = newFilterCmd(t, "--from=-500")
	f, err = filterFromFlags(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, &types.DateRange{Start: types.Year(-500)}, f.DateRange)
}

func TestFilterFromFlagsInvertedRange(t *testing.T) {
	cmd := newFilterCmd(t, "--from", "1900", "--to", "1800")
	_, err := filterFromFlags(cmd, nil)
	assert.ErrorContains(t, err, "--from 1900 is after --to 1800")
}

func TestNewRegistryOrder(t *testing.T) {
	reg := newRegistry(types.Config{})
	assert.Equal(t, []string{"met", "aic", "cma"}, reg.IDs())
}

func TestPrintVersionListsMuseums(t *testing.T) {
	var buf bytes.Buffer
	printVersion(&buf, newRegistry(types.Config{}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "museum-engine "+version, lines[0])
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[1]), "met "))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[2]), "aic "))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[3]), "cma "))
}
