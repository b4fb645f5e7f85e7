package crypto

import (
	"bytes"
	"errors"
	"testing"

	"github.com/curvelab/pda-address-deriver/pkg/types"
)

func fillProgramID(b byte) types.ProgramID {
	var id types.ProgramID
	for i := range id {
		id[i] = b
	}
	return id
}

func TestBuildPreimageLayout(t *testing.T) {
	programID := fillProgramID(0x05)
	seeds := [][]byte{[]byte("metadata"), {0xaa, 0xbb}}

	tests := []struct {
		name     string
		seeds    [][]byte
		nonce    uint8
		expected []byte
	}{
		{
			name:     "nonce zero contributes no byte",
			seeds:    seeds,
			nonce:    0,
			expected: append(append([]byte("metadata"), 0xaa, 0xbb), programID.Bytes()...),
		},
		{
			name:     "nonzero nonce sits between seeds and program id",
			seeds:    seeds,
			nonce:    7,
			expected: append(append([]byte("metadata"), 0xaa, 0xbb, 0x07), programID.Bytes()...),
		},
		{
			name:     "no seeds",
			seeds:    nil,
			nonce:    0,
			expected: programID.Bytes(),
		},
		{
			name:     "no seeds with nonce",
			seeds:    nil,
			nonce:    254,
			expected: append([]byte{0xfe}, programID.Bytes()...),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preimage := BuildPreimage(tt.seeds, tt.nonce, programID)
			if !bytes.Equal(preimage, tt.expected) {
				t.Errorf("BuildPreimage() = %x, want %x", preimage, tt.expected)
			}
		})
	}
}

func TestBuildPreimageNonceAsymmetry(t *testing.T) {
	programID := fillProgramID(0x01)
	seeds := [][]byte{[]byte("pool")}

	zero := BuildPreimage(seeds, 0, programID)
	one := BuildPreimage(seeds, 1, programID)

	if len(one) != len(zero)+1 {
		t.Errorf("nonce 1 preimage length = %d, want %d", len(one), len(zero)+1)
	}
	if bytes.Equal(zero, one) {
		t.Error("nonce 0 and nonce 1 preimages must differ")
	}
}

func TestDigest(t *testing.T) {
	// SHA-256 of 32 zero bytes.
	addr := Digest(make([]byte, 32))
	expected := "66687aadf862bd776c8fc18b8e9f8e20089714856ee233b3902a591d0d5f2925"
	if addr.Hex() != expected {
		t.Errorf("Digest() = %s, want %s", addr.Hex(), expected)
	}
}

func TestDeriveAddress(t *testing.T) {
	seeds := [][]byte{
		[]byte("metadata"),
		mustHex(t, "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"),
	}
	programID := fillProgramID(0x05)

	// Single-attempt digest at the nonce the search would settle on.
	addr := DeriveAddress(seeds, 21, programID)
	if addr.Hex() != "023fc46402239d3e4884a9015f23fceaa780954ede0f3e5db624b68857f98b00" {
		t.Errorf("DeriveAddress() = %s", addr.Hex())
	}

	if DeriveAddress(seeds, 0, programID) != Digest(BuildPreimage(seeds, 0, programID)) {
		t.Error("DeriveAddress() must equal Digest of the built preimage")
	}
}

func TestIsProgramAddress(t *testing.T) {
	tests := []struct {
		name     string
		lastByte byte
		expected bool
	}{
		{"final byte zero", 0x00, true},
		{"final byte one", 0x01, false},
		{"final byte high", 0xff, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var addr types.Address
			addr[0] = 0x00 // leading zero must not affect the check
			addr[types.AddressSize-1] = tt.lastByte
			if got := IsProgramAddress(addr); got != tt.expected {
				t.Errorf("IsProgramAddress() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDecodeHexSeed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr bool
	}{
		{"valid", "deadbeef", []byte{0xde, 0xad, 0xbe, 0xef}, false},
		{"empty", "", []byte{}, false},
		{"odd length", "abc", nil, true},
		{"non-hex", "zzzz", nil, true},
		{"mixed case", "DeadBEEF", []byte{0xde, 0xad, 0xbe, 0xef}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeHexSeed(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidEncoding) {
					t.Fatalf("DecodeHexSeed() error = %v, want ErrInvalidEncoding", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeHexSeed() unexpected error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("DecodeHexSeed() = %x, want %x", got, tt.want)
			}
		})
	}
}

func TestDecodePubkey(t *testing.T) {
	valid := "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid 32 bytes", valid, false},
		{"all zeros", "0000000000000000000000000000000000000000000000000000000000000000", false},
		{"too short", "0001", true},
		{"too long", valid + "20", true},
		{"odd length", valid[:63], true},
		{"non-hex", "gg0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodePubkey(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidEncoding) {
					t.Fatalf("DecodePubkey() error = %v, want ErrInvalidEncoding", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodePubkey() unexpected error: %v", err)
			}
			if len(got) != types.AddressSize {
				t.Errorf("DecodePubkey() length = %d, want %d", len(got), types.AddressSize)
			}
		})
	}
}

func TestDecodeProgramID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "0505050505050505050505050505050505050505050505050505050505050505", false},
		{"all zeros", "0000000000000000000000000000000000000000000000000000000000000000", false},
		{"too short", "05", true},
		{"empty", "", true},
		{"non-hex", "xx05050505050505050505050505050505050505050505050505050505050505", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := DecodeProgramID(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidEncoding) {
					t.Fatalf("DecodeProgramID() error = %v, want ErrInvalidEncoding", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeProgramID() unexpected error: %v", err)
			}
			if id.Hex() != tt.input {
				t.Errorf("DecodeProgramID() = %s, want %s", id.Hex(), tt.input)
			}
		})
	}
}

func TestEncodeAddress(t *testing.T) {
	var derived types.Address
	copy(derived[:], mustHex(t, "023fc46402239d3e4884a9015f23fceaa780954ede0f3e5db624b68857f98b00"))

	var leadingZeros types.Address
	copy(leadingZeros[:], mustHex(t, "00000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e"))

	tests := []struct {
		name     string
		addr     types.Address
		encoding string
		want     string
		wantErr  bool
	}{
		{
			name:     "hex",
			addr:     derived,
			encoding: EncodingHex,
			want:     "023fc46402239d3e4884a9015f23fceaa780954ede0f3e5db624b68857f98b00",
		},
		{
			name:     "default is hex",
			addr:     derived,
			encoding: "",
			want:     "023fc46402239d3e4884a9015f23fceaa780954ede0f3e5db624b68857f98b00",
		},
		{
			name:     "base58",
			addr:     derived,
			encoding: EncodingBase58,
			want:     "9nDG7Ae4xxZ6oBeCnBDpfmAnV7UfCsWcF3fyg3jgofu",
		},
		{
			name:     "base58 keeps leading zero bytes",
			addr:     leadingZeros,
			encoding: EncodingBase58,
			want:     "11CiMQsCUhqABwwLyCFeX2iPnBZX3s28dUUCBrirhs",
		},
		{
			name:     "unknown encoding",
			addr:     derived,
			encoding: "base64",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeAddress(tt.addr, tt.encoding)
			if tt.wantErr {
				if err == nil {
					t.Fatal("EncodeAddress() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("EncodeAddress() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("EncodeAddress() = %s, want %s", got, tt.want)
			}
		})
	}
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := DecodeHexSeed(s)
	if err != nil {
		t.Fatalf("bad test input %q: %v", s, err)
	}
	return b
}
