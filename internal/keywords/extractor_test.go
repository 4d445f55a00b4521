package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_LowercasesAndSplits(t *testing.T) {
	got := Extract("Fatal: SNAP command NOT-found (exit=127)")
	assert.Equal(t, []string{"fatal", "snap", "command", "found", "exit", "127"}, got)
}

func TestExtract_PreservesOrderAndRepeats(t *testing.T) {
	got := Extract("restart nginx restart nginx restart")
	assert.Equal(t, []string{"restart", "nginx", "restart", "nginx", "restart"}, got)
}

func TestExtract_DropsShortTokens(t *testing.T) {
	got := Extract("rm -rf /tmp/x; du -h")
	assert.Equal(t, []string{"tmp"}, got)
}

func TestExtract_DropsStopWords(t *testing.T) {
	// Every token is either a stop word or too short.
	assert.Empty(t, Extract("the a an"))
	assert.Empty(t, Extract("this was not what they had"))
}

func TestExtract_DegenerateInput(t *testing.T) {
	assert.Empty(t, Extract(""))
	assert.Empty(t, Extract("   \n\t  "))
	assert.Empty(t, Extract("!!! ??? ---"))
}

func TestExtract_NonASCIIIsBoundary(t *testing.T) {
	got := Extract("café señor naïve")
	// Accented runes split tokens; surviving runs follow normal rules.
	for _, kw := range got {
		for _, r := range kw {
			assert.True(t, isASCIIAlnum(r), "keyword %q contains non-ascii rune", kw)
		}
	}
}
