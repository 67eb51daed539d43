package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"":        logrus.InfoLevel,
		"debug":   logrus.DebugLevel,
		"WARNING": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("fatal")
	assert.Error(t, err)
}

func TestTrackCarriesCorrelationID(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := New(buf, "debug")
	require.NoError(t, err)

	track := Begin(log, "pre-build")
	track.Logger().Info("working")
	track.End()

	out := buf.String()
	assert.Equal(t, 3, strings.Count(out, "track="+track.ID))
	assert.Contains(t, out, "begin pre-build")
	assert.Contains(t, out, "end pre-build")
}
