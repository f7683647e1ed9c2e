package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"photo.png":            "photo.png",
		"../../etc/passwd":     "passwd",
		"..\\..\\evil.png":     "evil.png",
		"my photo (1).png":     "my_photo__1_.png",
		"..hidden":             "hidden",
		"héllo wörld.gif":      "h_llo_w_rld.gif",
		"UPPER_case-ok.JPG":    "UPPER_case-ok.JPG",
	}
	for in, expected := range cases {
		if got := SanitizeName(in); got != expected {
			t.Errorf("SanitizeName(%q) = %q, expected %q", in, got, expected)
		}
	}
}

func TestSanitizeNameNeverEmpty(t *testing.T) {
	for _, in := range []string{"", "...", "///", "..."} {
		if got := SanitizeName(in); got == "" {
			t.Errorf("SanitizeName(%q) returned an empty name", in)
		}
	}
}

func TestAllowedExt(t *testing.T) {
	files := testFileStore(t)

	require.True(t, files.AllowedExt("photo.png"))
	require.True(t, files.AllowedExt("photo.PNG"))
	require.False(t, files.AllowedExt("script.sh"))
	require.False(t, files.AllowedExt("noextension"))
	require.False(t, files.AllowedExt("archive.tar.xz"))
}

func TestSaveDetectsContentType(t *testing.T) {
	files := testFileStore(t)

	contentType, err := files.Save("note.txt", []byte("plain text content"))
	require.NoError(t, err)
	require.Contains(t, contentType, "text/plain")
}

func TestUniqueNameAvoidsCollisions(t *testing.T) {
	files := testFileStore(t)

	require.Equal(t, "a.png", files.UniqueName("a.png"))

	_, err := files.Save("a.png", []byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)

	renamed := files.UniqueName("a.png")
	require.NotEqual(t, "a.png", renamed)
	require.Contains(t, renamed, "a.png")
}
