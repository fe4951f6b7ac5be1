package watchdog

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/sweeney/aircon-controller/internal/logger"
)

// PingProber shells out to ping for a single ICMP echo against the gateway.
type PingProber struct {
	Gateway string
}

// Probe sends one echo request and waits within the context deadline.
func (p *PingProber) Probe(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "ping", "-c", "1", "-W", "1", p.Gateway)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ping %s: %w", p.Gateway, err)
	}
	return nil
}

// SysfsLink reads the interface operational state from sysfs.
type SysfsLink struct {
	Iface string
}

// Up reports whether the interface operstate is "up".
func (l *SysfsLink) Up() (bool, error) {
	raw, err := os.ReadFile("/sys/class/net/" + l.Iface + "/operstate")
	if err != nil {
		return false, fmt.Errorf("read operstate %s: %w", l.Iface, err)
	}
	return strings.TrimSpace(string(raw)) == "up", nil
}

// SystemRebooter restarts the whole device.
type SystemRebooter struct {
	Log *logger.Logger
}

// Reboot syncs filesystems and invokes the system reboot command. It does
// not return on success.
func (r *SystemRebooter) Reboot(reason string) {
	if out, err := exec.Command("sync").CombinedOutput(); err != nil && r.Log != nil {
		r.Log.Errorw("sync before reboot", "err", err, "out", string(out))
	}
	if out, err := exec.Command("reboot").CombinedOutput(); err != nil && r.Log != nil {
		r.Log.Errorw("reboot command failed", "err", err, "out", string(out))
	}
}
