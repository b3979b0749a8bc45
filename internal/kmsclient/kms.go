// Package kmsclient decrypts the callback API key via AWS KMS: a
// ciphertext blob decrypted against a symmetric key, keyed by the
// invocation's function name as encryption context.
package kmsclient

import (
	"context"
	"encoding/base64"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/kms"

	"github.com/lshdedup/lshdedup/internal/respenvelope"
)

// Decryptor decrypts an API key ciphertext for a given function name.
type Decryptor struct {
	client *kms.KMS
	keyID  string
}

// NewDecryptor builds a Decryptor bound to a single KMS key ID.
func NewDecryptor(region, keyID string) (*Decryptor, *respenvelope.ServiceError) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, respenvelope.InternalError("creating aws session: %v", err)
	}
	return &Decryptor{client: kms.New(sess), keyID: keyID}, nil
}

// DecryptAPIKey decrypts a base64-encoded ciphertext, scoping the
// decryption to functionName via the LambdaFunctionName encryption
// context.
func (d *Decryptor) DecryptAPIKey(ctx context.Context, ciphertextB64, functionName string) (string, *respenvelope.ServiceError) {
	ciphertext, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil {
		return "", respenvelope.InternalError("decoding api key ciphertext: %v", err)
	}

	out, err := d.client.DecryptWithContext(ctx, &kms.DecryptInput{
		CiphertextBlob: ciphertext,
		KeyId:          aws.String(d.keyID),
		EncryptionContext: map[string]*string{
			"LambdaFunctionName": aws.String(functionName),
		},
	})
	if err != nil {
		return "", respenvelope.InternalError("decrypting api key: %v", err)
	}
	return string(out.Plaintext), nil
}
