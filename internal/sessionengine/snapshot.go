package sessionengine

import (
	"github.com/rgrove-dev/parlor/internal/protocol"
	"github.com/rgrove-dev/parlor/internal/session"
)

func playerSnapshot(p *session.Player) protocol.PlayerSnapshot {
	return protocol.PlayerSnapshot{
		Handle:           p.Handle,
		RegistrationTime: protocol.NewTime(p.RegistrationTime),
		LastActiveTime:   protocol.NewTime(p.LastActiveTime),
		Activity:         p.Activity,
		Connection:       p.Connection,
	}
}

func gameSnapshot(g *session.Game) protocol.GameSnapshot {
	return protocol.GameSnapshot{
		GameID:           g.ID,
		AdvertiserHandle: g.AdvertiserHandle,
		Name:             g.Name,
		Mode:             g.Mode,
		TargetPlayers:    g.TargetPlayers,
		Visibility:       g.Visibility,
		AdvertisedTime:   protocol.NewTime(g.AdvertisedTime),
	}
}

func gamePlayerSnapshots(g *session.Game) []protocol.GamePlayerSnapshot {
	players := g.Players()
	out := make([]protocol.GamePlayerSnapshot, 0, len(players))
	for _, gp := range players {
		out = append(out, protocol.GamePlayerSnapshot{
			Handle: gp.Handle,
			Color:  gp.Color,
			Kind:   gp.Kind,
			State:  gp.State,
		})
	}
	return out
}
