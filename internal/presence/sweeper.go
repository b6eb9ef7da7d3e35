package presence

import "go.uber.org/zap"

// sweep releases sessions idle for longer than the liveness timeout.
func (r *Registry) sweep() {
	now := r.now()
	for connID, s := range r.byConn {
		if now.Sub(s.lastSeen) <= r.conf.LivenessTimeout {
			continue
		}

		zap.L().Info(
			"presence session expired",
			zap.String("conn_id", connID),
			zap.String("cpu_serial", s.cpuSerial),
			zap.Time("last_seen", s.lastSeen),
		)
		r.release(connID, s, now)
		if r.onEvict != nil {
			r.onEvict(connID)
		}
	}
}
