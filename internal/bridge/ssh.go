package bridge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/atomicstack/winadmin/internal/logging"
	"github.com/atomicstack/winadmin/internal/logging/events"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// SSHConfig describes the Windows jump host commands run on.
type SSHConfig struct {
	Addr           string
	User           string
	Password       string
	KeyPath        string
	KnownHostsPath string
}

// SSHExecutor runs host programs on a jump host over SSH. The connection is
// dialled on first use and reused for every command.
type SSHExecutor struct {
	cfg SSHConfig

	mu     sync.Mutex
	client *ssh.Client
}

func NewSSHExecutor(cfg SSHConfig) *SSHExecutor {
	return &SSHExecutor{cfg: cfg}
}

func (e *SSHExecutor) Output(ctx context.Context, argv []string) (Result, error) {
	client, err := e.connect()
	if err != nil {
		return Result{}, err
	}
	session, err := client.NewSession()
	if err != nil {
		e.reset()
		return Result{}, fmt.Errorf("open ssh session: %w", err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr
	line := QuoteCommandLine(argv)
	events.Bridge.Exec(argv)

	done := make(chan error, 1)
	go func() { done <- session.Run(line) }()
	select {
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGKILL)
		return Result{}, ctx.Err()
	case err = <-done:
	}
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	var exitErr *ssh.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitStatus()
		return res, nil
	}
	return res, err
}

func (e *SSHExecutor) Start(context.Context, []string) (Process, error) {
	return nil, ErrConsoleUnsupported
}

// Close drops the SSH connection.
func (e *SSHExecutor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == nil {
		return nil
	}
	err := e.client.Close()
	e.client = nil
	return err
}

func (e *SSHExecutor) connect() (*ssh.Client, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client != nil {
		return e.client, nil
	}
	config, err := buildClientConfig(e.cfg)
	if err != nil {
		return nil, err
	}
	client, err := ssh.Dial("tcp", sshAddr(e.cfg.Addr), config)
	if err != nil {
		return nil, fmt.Errorf("ssh dial %s: %w", e.cfg.Addr, err)
	}
	e.client = client
	return client, nil
}

func (e *SSHExecutor) reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client != nil {
		_ = e.client.Close()
		e.client = nil
	}
}

func sshAddr(addr string) string {
	if strings.Contains(addr, ":") {
		return addr
	}
	return addr + ":22"
}

func buildClientConfig(cfg SSHConfig) (*ssh.ClientConfig, error) {
	var auth []ssh.AuthMethod
	if cfg.KeyPath != "" {
		keyAuth, err := readPrivateKey(cfg.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("read private key: %w", err)
		}
		auth = append(auth, keyAuth)
	}
	if cfg.Password != "" {
		auth = append(auth, ssh.Password(cfg.Password))
	}
	if len(auth) == 0 {
		return nil, errors.New("ssh bridge needs a password or private key")
	}
	hostKey := ssh.InsecureIgnoreHostKey()
	if cfg.KnownHostsPath != "" {
		cb, err := knownhosts.New(cfg.KnownHostsPath)
		if err != nil {
			return nil, fmt.Errorf("load known hosts: %w", err)
		}
		hostKey = cb
	} else {
		logging.Error(fmt.Errorf("ssh bridge: host key checking disabled for %s; set --ssh-known-hosts", cfg.Addr))
	}
	return &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            auth,
		HostKeyCallback: hostKey,
	}, nil
}

func readPrivateKey(path string) (ssh.AuthMethod, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		return nil, err
	}
	return ssh.PublicKeys(signer), nil
}

// QuoteCommandLine joins argv for cmd.exe, the default shell of Windows
// OpenSSH. Arguments with spaces or quotes are wrapped in double quotes.
func QuoteCommandLine(argv []string) string {
	parts := make([]string, len(argv))
	for i, arg := range argv {
		if arg == "" {
			parts[i] = `""`
			continue
		}
		if !strings.ContainsAny(arg, " \t\"") {
			parts[i] = arg
			continue
		}
		parts[i] = `"` + strings.ReplaceAll(arg, `"`, `\"`) + `"`
	}
	return strings.Join(parts, " ")
}
