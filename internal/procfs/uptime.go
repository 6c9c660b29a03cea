package procfs

import (
	"fmt"
	"time"
)

// Reference: https://man7.org/linux/man-pages/man5/proc_uptime.5.html

// UptimeProducer renders the uptime file: monotonic uptime and global
// idle time, both in seconds with two decimals, two spaces between them,
// no trailing newline.
type UptimeProducer struct {
	stats  CPUStats
	uptime func() time.Duration
	hz     int
}

// NewUptimeProducer wires the uptime file to the accounting surface, a
// monotonic uptime clock and the tick frequency used to convert idle
// jiffies into seconds.
func NewUptimeProducer(stats CPUStats, uptime func() time.Duration, hz int) *UptimeProducer {
	return &UptimeProducer{stats: stats, uptime: uptime, hz: hz}
}

// Data renders the uptime file.
func (p *UptimeProducer) Data() ([]byte, error) {
	up := p.uptime().Seconds()
	idle := p.stats.GetGlobal().Idle.Seconds(p.hz)
	return []byte(fmt.Sprintf("%.2f  %.2f", up, idle)), nil
}
