package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestCheckAvatarUpload(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		want     error
	}{
		{name: "png", filename: "me.png", size: 10},
		{name: "jpg upper", filename: "ME.JPG", size: 10},
		{name: "jpeg", filename: "me.jpeg", size: MaxAvatarBytes},
		{name: "gif", filename: "me.gif", size: 10, want: ErrAvatarType},
		{name: "no ext", filename: "png", size: 10, want: ErrAvatarType},
		{name: "too big", filename: "me.png", size: 2_000_000, want: ErrAvatarTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckAvatarUpload(tt.filename, tt.size))
		})
	}
}

func TestNormalizeAvatar(t *testing.T) {
	for _, src := range [][]byte{encodePNG(t, 400, 300), encodeJPEG(t, 120, 640)} {
		out, err := NormalizeAvatar(bytes.NewReader(src))
		require.NoError(t, err)

		img, format, err := image.Decode(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, image.Rect(0, 0, AvatarSide, AvatarSide), img.Bounds())
	}
}

func TestNormalizeAvatar_Rejects(t *testing.T) {
	_, err := NormalizeAvatar(strings.NewReader("definitely not an image"))
	assert.ErrorIs(t, err, ErrAvatarDecode)

	_, err = NormalizeAvatar(bytes.NewReader(make([]byte, MaxAvatarBytes+10)))
	assert.ErrorIs(t, err, ErrAvatarTooLarge)
}

func TestAvatarLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u, _ := f.register(t, "A", "a@b.com")

	_, err := f.users.Avatar(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	src := encodePNG(t, 64, 64)
	require.NoError(t, f.users.SetAvatar(ctx, u.ID, "me.png", int64(len(src)), bytes.NewReader(src)))

	img, err := f.users.Avatar(ctx, u.ID)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, AvatarSide, cfg.Width)
	assert.Equal(t, AvatarSide, cfg.Height)

	err = f.users.SetAvatar(ctx, u.ID, "me.gif", int64(len(src)), bytes.NewReader(src))
	assert.ErrorIs(t, err, ErrAvatarType)

	require.NoError(t, f.users.DeleteAvatar(ctx, u.ID))
	_, err = f.users.Avatar(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.users.Avatar(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}
