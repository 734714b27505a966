package helper

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"lomaro_whatsapp/config"
	"os"
)

// ErrFlowDecrypt marks transport-level crypto failures. No key material
// exists to encrypt a reply, so the handler must answer with a bare 421 and
// never a screen payload.
var ErrFlowDecrypt = errors.New("flow request decryption failed")

// FlowEnvelope là body mã hoá của một request WhatsApp Flow.
type FlowEnvelope struct {
	EncryptedFlowData string `json:"encrypted_flow_data"`
	EncryptedAESKey   string `json:"encrypted_aes_key"`
	InitialVector     string `json:"initial_vector"`
}

// IsPing reports the unencrypted health-check variant: a body carrying none
// of the envelope fields bypasses the codec entirely.
func (e *FlowEnvelope) IsPing() bool {
	return e.EncryptedFlowData == "" && e.EncryptedAESKey == "" && e.InitialVector == ""
}

// FlowRequest là nội dung đã giải mã.
type FlowRequest struct {
	Action    string         `json:"action"`
	Screen    string         `json:"screen"`
	Data      map[string]any `json:"data"`
	FlowToken string         `json:"flow_token"`
}

// FlowResponse là nội dung trả về trước khi mã hoá. Screen rỗng với màn
// hình kết thúc.
type FlowResponse struct {
	Screen string         `json:"screen,omitempty"`
	Data   map[string]any `json:"data"`
}

// LoadFlowPrivateKey reads the RSA private key used to unwrap flow AES keys,
// either inline PEM (FLOW_PRIVATE_KEY) or from FLOW_PRIVATE_KEY_PATH.
func LoadFlowPrivateKey() (*rsa.PrivateKey, error) {
	pemData := config.Config("FLOW_PRIVATE_KEY")
	if pemData == "" {
		path := config.Config("FLOW_PRIVATE_KEY_PATH")
		if path == "" {
			return nil, errors.New("FLOW_PRIVATE_KEY / FLOW_PRIVATE_KEY_PATH not set")
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		pemData = string(raw)
	}
	return ParseFlowPrivateKey([]byte(pemData))
}

func ParseFlowPrivateKey(pemData []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, errors.New("no PEM block in flow private key")
	}
	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, errors.New("flow private key is not RSA")
		}
		return rsaKey, nil
	}
	return x509.ParsePKCS1PrivateKey(block.Bytes)
}

// DecryptFlowRequest unwraps the AES key with RSA-OAEP(SHA-256, MGF1-SHA-256)
// and opens the AES-256-GCM body. The trailing 16 bytes of the ciphertext are
// the auth tag, which is exactly the layout gcm.Open expects. Returns the
// decrypted request plus the key/IV needed to encrypt the reply.
func DecryptFlowRequest(priv *rsa.PrivateKey, env *FlowEnvelope) (*FlowRequest, []byte, []byte, error) {
	encKey, err := base64.StdEncoding.DecodeString(env.EncryptedAESKey)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: bad aes key base64: %v", ErrFlowDecrypt, err)
	}
	iv, err := base64.StdEncoding.DecodeString(env.InitialVector)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: bad iv base64: %v", ErrFlowDecrypt, err)
	}
	data, err := base64.StdEncoding.DecodeString(env.EncryptedFlowData)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: bad flow data base64: %v", ErrFlowDecrypt, err)
	}

	aesKey, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, priv, encKey, nil)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: key unwrap: %v", ErrFlowDecrypt, err)
	}

	gcm, err := newGCM(aesKey, len(iv))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrFlowDecrypt, err)
	}
	plaintext, err := gcm.Open(nil, iv, data, nil)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: auth/decrypt: %v", ErrFlowDecrypt, err)
	}

	var req FlowRequest
	if err := json.Unmarshal(plaintext, &req); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: bad plaintext json: %v", ErrFlowDecrypt, err)
	}
	return &req, aesKey, iv, nil
}

// EncryptFlowResponse encrypts the reply under the request's AES key with
// every byte of the inbound IV bitwise-inverted — the protocol mandates the
// one's complement nonce for the response direction. The GCM tag ends up
// appended to the ciphertext; the whole thing is returned base64-encoded as
// an opaque body.
func EncryptFlowResponse(resp *FlowResponse, aesKey, iv []byte) (string, error) {
	plaintext, err := json.Marshal(resp)
	if err != nil {
		return "", err
	}

	flipped := make([]byte, len(iv))
	for i, b := range iv {
		flipped[i] = ^b
	}

	gcm, err := newGCM(aesKey, len(flipped))
	if err != nil {
		return "", err
	}
	sealed := gcm.Seal(nil, flipped, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func newGCM(aesKey []byte, nonceSize int) (cipher.AEAD, error) {
	block, err := aes.NewCipher(aesKey)
	if err != nil {
		return nil, err
	}
	if nonceSize == 12 {
		return cipher.NewGCM(block)
	}
	return cipher.NewGCMWithNonceSize(block, nonceSize)
}
