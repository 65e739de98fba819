package remote

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// SFTPDialer dials servers over ssh and runs the sftp subsystem on the
// resulting connection.
type SFTPDialer struct{}

func NewSFTPDialer() *SFTPDialer {
	return &SFTPDialer{}
}

func (d *SFTPDialer) Dial(addr, username, password string) (Session, error) {
	sshConfig := &ssh.ClientConfig{
		User: username,
		Auth: []ssh.AuthMethod{
			ssh.Password(password),
		},
		// Harvested servers are registered by operators, there is no host
		// key inventory to check against.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	sshClient, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		return nil, errors.Wrapf(err, "ssh dial %s failed", addr)
	}

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		_ = sshClient.Close()
		return nil, errors.Wrapf(err, "starting sftp subsystem on %s failed", addr)
	}

	return &sftpSession{sshClient: sshClient, sftpClient: sftpClient}, nil
}

type sftpSession struct {
	sshClient  *ssh.Client
	sftpClient *sftp.Client
}

func (s *sftpSession) List(path string) ([]string, error) {
	entries, err := s.sftpClient.ReadDir(path)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s failed", path)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}

	return names, nil
}

func (s *sftpSession) Download(remotePath, localPath string) error {
	remoteFile, err := s.sftpClient.Open(remotePath)
	if err != nil {
		return errors.Wrapf(err, "opening remote file %s failed", remotePath)
	}
	defer remoteFile.Close()

	localFile, err := os.Create(localPath)
	if err != nil {
		return errors.Wrapf(err, "creating %s failed", localPath)
	}

	if _, err := io.Copy(localFile, remoteFile); err != nil {
		_ = localFile.Close()
		return errors.Wrapf(err, "downloading %s failed", remotePath)
	}

	return localFile.Close()
}

func (s *sftpSession) Close() error {
	err := s.sftpClient.Close()
	if closeErr := s.sshClient.Close(); err == nil {
		err = closeErr
	}
	return err
}
