package mapview

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearchURLFormat(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		"https://www.google.com/maps/search/?api=1&query=12.34,56.78",
		SearchURL(12.34, 56.78))
}

func TestSearchURLKeepsFullPrecisionAndSign(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		"https://www.google.com/maps/search/?api=1&query=-33.8688,151.2093",
		SearchURL(-33.8688, 151.2093))
	require.Equal(t,
		"https://www.google.com/maps/search/?api=1&query=0,0",
		SearchURL(0, 0))
	require.Equal(t,
		"https://www.google.com/maps/search/?api=1&query=1.0000000001,-0.000001",
		SearchURL(1.0000000001, -0.000001))
}

func TestOpenerCommandPerPlatform(t *testing.T) {
	t.Parallel()

	url := "https://example.com"

	name, args, err := openerCommand("linux", url)
	require.NoError(t, err)
	require.Equal(t, "xdg-open", name)
	require.Equal(t, []string{url}, args)

	name, args, err = openerCommand("darwin", url)
	require.NoError(t, err)
	require.Equal(t, "open", name)
	require.Equal(t, []string{url}, args)

	name, args, err = openerCommand("windows", url)
	require.NoError(t, err)
	require.Equal(t, "rundll32", name)
	require.Equal(t, []string{"url.dll,FileProtocolHandler", url}, args)

	_, _, err = openerCommand("plan9", url)
	require.Error(t, err)
}
