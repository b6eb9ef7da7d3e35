package presence

import (
	"context"

	md "github.com/JMURv/player-pairing/internal/models"
	"github.com/JMURv/player-pairing/internal/notify"
	"go.uber.org/zap"
)

// snapshotLoop publishes the full device list after presence changes.
// Triggers that arrive while a snapshot is loading collapse into one.
func (r *Registry) snapshotLoop(stop <-chan struct{}) {
	ctx := context.Background()
	for {
		select {
		case <-stop:
			return
		case <-r.trigger:
			list, err := r.store.ListDevices(ctx, md.DeviceFilter{})
			if err != nil {
				zap.L().Error("failed to load players snapshot", zap.Error(err))
				continue
			}
			r.pub.Publish(ctx, notify.PlayersUpdate(list, r.now()))
		}
	}
}
