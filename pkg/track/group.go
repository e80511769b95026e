package track

import (
	"fmt"

	"github.com/pathsense/go-pathsense/pkg/detect"
)

// DefaultMinCluster is the zone population at which individual detections
// collapse into one summary detection.
const DefaultMinCluster = 3

// GroupClustered collapses dense same-zone detections into a synthetic
// "N objects" detection carrying the most dangerous member's danger,
// distance and confidence. Individual identification is traded away to
// keep the audio channel usable in cluttered scenes.
func GroupClustered(dets []detect.Detection, frameWidth float64, minCluster int) []detect.Detection {
	if minCluster <= 1 {
		minCluster = DefaultMinCluster
	}
	if len(dets) < minCluster {
		return dets
	}

	zones := make(map[detect.Position][]detect.Detection, 3)
	for _, d := range dets {
		pos := d.Position(frameWidth)
		zones[pos] = append(zones[pos], d)
	}

	out := make([]detect.Detection, 0, len(dets))
	for _, pos := range []detect.Position{detect.PositionLeft, detect.PositionCenter, detect.PositionRight} {
		members := zones[pos]
		if len(members) == 0 {
			continue
		}
		if len(members) < minCluster {
			out = append(out, members...)
			continue
		}
		out = append(out, summarize(members))
	}
	return out
}

// summarize builds the synthetic cluster detection from its members.
func summarize(members []detect.Detection) detect.Detection {
	lead := members[0]
	box := lead.Box
	for _, m := range members[1:] {
		if moreDangerous(m, lead) {
			lead = m
		}
		if m.Box.Left < box.Left {
			box.Left = m.Box.Left
		}
		if m.Box.Top < box.Top {
			box.Top = m.Box.Top
		}
		if m.Box.Right > box.Right {
			box.Right = m.Box.Right
		}
		if m.Box.Bottom > box.Bottom {
			box.Bottom = m.Box.Bottom
		}
	}

	return detect.Detection{
		ClassName:      fmt.Sprintf("%d objects", len(members)),
		ClassID:        detect.HeuristicClassID,
		Confidence:     lead.Confidence,
		Box:            box,
		Danger:         lead.Danger,
		DistanceMeters: lead.DistanceMeters,
		Timestamp:      lead.Timestamp,
	}
}

func moreDangerous(a, b detect.Detection) bool {
	wa, wb := detect.Weight(a.Danger), detect.Weight(b.Danger)
	if wa != wb {
		return wa > wb
	}
	return a.Confidence > b.Confidence
}
