package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"regexp"

	"golang.org/x/image/draw"
)

const (
	MaxAvatarBytes = 1_000_000
	AvatarSide     = 250
	// decoded-size guard against decompression bombs
	maxAvatarPixels = 40_000_000
)

var (
	ErrAvatarTooLarge = errors.New("file too large")
	ErrAvatarType     = errors.New("please upload a supported image type")
	ErrAvatarDecode   = errors.New("unable to read image")
)

var avatarExt = regexp.MustCompile(`(?i)\.(jpg|jpeg|png)$`)

// CheckAvatarUpload validates the upload metadata before any bytes are decoded.
func CheckAvatarUpload(filename string, size int64) error {
	if size > MaxAvatarBytes {
		return ErrAvatarTooLarge
	}
	if !avatarExt.MatchString(filename) {
		return ErrAvatarType
	}
	return nil
}

// NormalizeAvatar decodes a JPEG or PNG, centre-crops it to a square,
// scales it to AvatarSide and re-encodes it as PNG.
func NormalizeAvatar(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxAvatarBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read avatar: %w", err)
	}
	if len(data) > MaxAvatarBytes {
		return nil, ErrAvatarTooLarge
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrAvatarDecode
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxAvatarPixels {
		return nil, ErrAvatarDecode
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrAvatarDecode
	}

	b := src.Bounds()
	side := min(b.Dx(), b.Dy())
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2
	crop := image.Rect(x0, y0, x0+side, y0+side)

	dst := image.NewRGBA(image.Rect(0, 0, AvatarSide, AvatarSide))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Over, nil)

	var out bytes.Buffer
	if err := png.Encode(&out, dst); err != nil {
		return nil, fmt.Errorf("encode avatar: %w", err)
	}
	return out.Bytes(), nil
}

// SetAvatar validates, normalises and stores an uploaded avatar.
func (s *UserService) SetAvatar(ctx context.Context, userID, filename string, size int64, r io.Reader) error {
	if err := CheckAvatarUpload(filename, size); err != nil {
		return err
	}
	img, err := NormalizeAvatar(r)
	if err != nil {
		return err
	}
	return notFound(s.users.SetAvatar(ctx, userID, img))
}

func (s *UserService) DeleteAvatar(ctx context.Context, userID string) error {
	return notFound(s.users.SetAvatar(ctx, userID, nil))
}

// Avatar returns the stored PNG for a user id; malformed ids are simply not found.
func (s *UserService) Avatar(ctx context.Context, userID string) ([]byte, error) {
	if !validID(userID) {
		return nil, ErrNotFound
	}
	img, err := s.users.GetAvatar(ctx, userID)
	if err != nil {
		return nil, notFound(err)
	}
	return img, nil
}
