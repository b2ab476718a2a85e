// Package tlsboot creates a self-signed server certificate for development
// deployments that enable TLS without providing one.
package tlsboot

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"io/fs"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/oops"
)

const validity = 365 * 24 * time.Hour

// EnsureCert writes a new certificate and key unless both files already
// exist. It reports whether files were created.
func EnsureCert(certFile, keyFile string) (bool, error) {
	certOK, err := exists(certFile)
	if err != nil {
		return false, err
	}
	keyOK, err := exists(keyFile)
	if err != nil {
		return false, err
	}
	if certOK && keyOK {
		return false, nil
	}
	if err := Generate(certFile, keyFile, time.Now()); err != nil {
		return false, err
	}
	return true, nil
}

// Generate writes a one-year ECDSA P-256 certificate for localhost.
func Generate(certFile, keyFile string, now time.Time) error {
	errb := oops.In("tlsboot").With("cert", certFile).With("key", keyFile)

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return errb.Wrapf(err, "generate key")
	}
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return errb.Wrapf(err, "generate serial")
	}

	template := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: "localhost", Organization: []string{"Placefinder"}},
		NotBefore:             now.Add(-time.Minute),
		NotAfter:              now.Add(validity),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		DNSNames:              []string{"localhost"},
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1"), net.ParseIP("::1")},
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return errb.Wrapf(err, "create certificate")
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return errb.Wrapf(err, "marshal key")
	}

	if err := writePEM(certFile, "CERTIFICATE", der, 0o644); err != nil {
		return errb.Wrapf(err, "write certificate")
	}
	if err := writePEM(keyFile, "EC PRIVATE KEY", keyDER, 0o600); err != nil {
		return errb.Wrapf(err, "write key")
	}
	return nil
}

// Load reads a certificate pair, for checking files before serving.
func Load(certFile, keyFile string) (tls.Certificate, error) {
	pair, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return tls.Certificate{}, oops.In("tlsboot").With("cert", certFile).Wrapf(err, "load key pair")
	}
	return pair, nil
}

func writePEM(path, blockType string, der []byte, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Clean(path), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if err := pem.Encode(f, &pem.Block{Type: blockType, Bytes: der}); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, oops.In("tlsboot").With("path", path).Wrapf(err, "stat")
}
