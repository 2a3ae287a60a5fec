package logic

import (
	"bufio"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"ghostodon/shared"
)

var ErrInstanceBlocked = shared.NewError(shared.KindConfig, "This instance is blocked")

// IBlockedInstances tells whether the operator refuses logins to an instance.
type IBlockedInstances interface {
	IsBlocked(origin string) (bool, error)
}

type blockedInstances struct {
	cfg *shared.Config
}

func NewBlockedInstances(cfg *shared.Config) IBlockedInstances {
	return &blockedInstances{cfg}
}

func blockedHost(origin string) string {
	origin = strings.ToLower(strings.TrimSpace(origin))
	if !strings.Contains(origin, "://") {
		origin = "https://" + origin
	}
	if u, err := url.Parse(origin); err == nil {
		return u.Hostname()
	}
	return origin
}

// IsBlocked reads the block file on every call, so edits apply without a restart.
// One host per line; a line "example.com" also blocks "sub.example.com". Lines starting with # are comments.
func (bi *blockedInstances) IsBlocked(origin string) (bool, error) {

	if bi.cfg.BlockedInstancesFile == "" {
		return false, nil
	}
	host := blockedHost(origin)
	readFile, err := os.Open(bi.cfg.BlockedInstancesFile)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer readFile.Close()
	fileScanner := bufio.NewScanner(readFile)
	fileScanner.Split(bufio.ScanLines)

	for fileScanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(fileScanner.Text()))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if host == line || strings.HasSuffix(host, "."+line) {
			return true, nil
		}
	}
	return false, fileScanner.Err()
}
