package password

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestCodec(t *testing.T) *BcryptCodec {
	t.Helper()
	codec, err := NewBcryptCodec(bcrypt.MinCost)
	require.NoError(t, err)
	return codec
}

func TestNewBcryptCodec(t *testing.T) {
	tests := []struct {
		name    string
		cost    int
		wantErr bool
	}{
		{name: "min cost", cost: bcrypt.MinCost},
		{name: "default cost", cost: bcrypt.DefaultCost},
		{name: "max cost", cost: bcrypt.MaxCost},
		{name: "too low", cost: bcrypt.MinCost - 1, wantErr: true},
		{name: "zero", cost: 0, wantErr: true},
		{name: "too high", cost: bcrypt.MaxCost + 1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec, err := NewBcryptCodec(tt.cost)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidCost), "NewBcryptCodec() error = %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cost, codec.Cost())
		})
	}
}

func TestBcryptCodec_Hash(t *testing.T) {
	codec := newTestCodec(t)

	h1, err := codec.Hash("secret1")
	require.NoError(t, err)
	h2, err := codec.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "hashes of the same input must differ")
	assert.True(t, codec.IsHashed(h1))
	assert.True(t, codec.IsHashed(h2))
	assert.NoError(t, codec.Check(h1, "secret1"))
	assert.NoError(t, codec.Check(h2, "secret1"))
	assert.Equal(t, ErrMismatch, codec.Check(h1, "secret2"))
}

func TestBcryptCodec_Hash_EmptyPassword(t *testing.T) {
	codec := newTestCodec(t)

	hash, err := codec.Hash("")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.True(t, codec.IsHashed(hash))
	assert.NoError(t, codec.Check(hash, ""))
	assert.Equal(t, ErrMismatch, codec.Check(hash, "x"))
}

func TestBcryptCodec_Hash_Failure(t *testing.T) {
	codec := newTestCodec(t)

	hash, err := codec.Hash(strings.Repeat("a", 73)) // over bcrypt's input limit
	assert.Empty(t, hash)
	assert.True(t, errors.Is(err, ErrCodecFailure), "Hash() error = %v", err)
}

func TestBcryptCodec_IsHashed(t *testing.T) {
	codec := newTestCodec(t)
	hash, err := codec.Hash("lol")
	require.NoError(t, err)

	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "generated", value: hash, want: true},
		{name: "2a prefix", value: "$2a$10$" + strings.Repeat("a", 53), want: true},
		{name: "2y prefix", value: "$2y$12$" + strings.Repeat("Z", 53), want: true},
		{name: "empty", value: "", want: false},
		{name: "plaintext", value: "secret1", want: false},
		{name: "truncated", value: hash[:59], want: false},
		{name: "too long", value: hash + "a", want: false},
		{name: "unknown version", value: "$2x$10$" + strings.Repeat("a", 53), want: false},
		{name: "single digit cost", value: "$2b$4$" + strings.Repeat("a", 54), want: false},
		{name: "invalid alphabet", value: "$2b$10$" + strings.Repeat("-", 53), want: false},
		{name: "argon2", value: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, codec.IsHashed(tt.value))
		})
	}
}

func TestBcryptCodec_Check_NotAHash(t *testing.T) {
	codec := newTestCodec(t)

	err := codec.Check("secret1", "secret1")
	assert.Error(t, err)
	assert.NotEqual(t, ErrMismatch, err)
}
