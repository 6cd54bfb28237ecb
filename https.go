package h1

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/acme/autocert"
)

// HTTPS makes the app serve TLS connections on its address, using the certificate and the
// key from the files.
func (a *App) HTTPS(cert, key string) *App {
	a.listeners[0].Factory = tlsListener(cert, key)
	return a
}

// AutoHTTPS enables HTTPS-mode using autocert or generates self-signed certificates if using
// local host
func (a *App) AutoHTTPS(domains ...string) *App {
	if isLocalhost(a.listeners[0].Addr) {
		cert, key, err := generateSelfSignedCert(cacheDir())
		if err != nil {
			a.logger.Printf(
				"WARNING: AutoHTTPS(...): can't generate self-signed certificate: %s. Disabling TLS",
				err,
			)

			return a
		}

		return a.HTTPS(cert, key)
	}

	a.listeners[0].Factory = autoTLSListener(a.logger, domains...)
	return a
}

func isLocalhost(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}

	switch host {
	case "", "localhost", "127.0.0.1", "::1", "0.0.0.0":
		return true
	default:
		return false
	}
}

func cacheDir() string {
	const base = "h1-autocert"

	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, base)
	}

	return filepath.Join(os.TempDir(), base)
}

func tlsListener(cert, key string) ListenerFactory {
	return func(network, addr string) (net.Listener, error) {
		certificate, err := tls.LoadX509KeyPair(cert, key)
		if err != nil {
			return nil, errors.Wrap(err, "load certificate")
		}

		return tls.Listen(network, addr, &tls.Config{
			Certificates: []tls.Certificate{certificate},
		})
	}
}

func autoTLSListener(logger Logger, domains ...string) ListenerFactory {
	return func(network, addr string) (net.Listener, error) {
		m := &autocert.Manager{
			Prompt: autocert.AcceptTOS,
		}

		if len(domains) > 0 {
			m.HostPolicy = autocert.HostWhitelist(domains...)
		}

		cache := cacheDir()
		if err := mkdirIfNotExists(cache); err != nil {
			logger.Printf("WARNING: auto HTTPS: not using a cache: %s", err)
		} else {
			m.Cache = autocert.DirCache(cache)
		}

		return tls.Listen(network, addr, m.TLSConfig())
	}
}

func generateSelfSignedCert(dir string) (cert, key string, err error) {
	var (
		certFilename = filepath.Join(dir, "localhost.crt")
		keyFilename  = filepath.Join(dir, "localhost.key")
	)

	if fileExists(certFilename) && fileExists(keyFilename) {
		return certFilename, keyFilename, nil
	}

	if err = mkdirIfNotExists(dir); err != nil {
		return "", "", err
	}

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return "", "", err
	}

	notBefore := time.Now()
	template := x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{Organization: []string{"Localhost"}},
		DNSNames:              []string{"localhost"},
		IPAddresses:           []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback},
		NotBefore:             notBefore,
		NotAfter:              notBefore.Add(10 * 365 * 24 * time.Hour),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	if err != nil {
		return "", "", err
	}

	privBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return "", "", err
	}

	if err = writePEM(certFilename, "CERTIFICATE", certDER); err != nil {
		return "", "", err
	}

	if err = writePEM(keyFilename, "PRIVATE KEY", privBytes); err != nil {
		return "", "", err
	}

	return certFilename, keyFilename, nil
}

func writePEM(filename, blockType string, data []byte) error {
	file, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	if err = pem.Encode(file, &pem.Block{Type: blockType, Bytes: data}); err != nil {
		_ = file.Close()
		return err
	}

	return file.Close()
}

func mkdirIfNotExists(dir string) error {
	if stat, err := os.Stat(dir); err == nil && stat.IsDir() {
		return nil
	}

	return os.MkdirAll(dir, 0700)
}

func fileExists(filename string) bool {
	stat, err := os.Stat(filename)

	return err == nil && !stat.IsDir()
}
