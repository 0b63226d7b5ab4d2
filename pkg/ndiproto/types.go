// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ndiproto

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Pose is a rigid 3-D frame: a unit quaternion orientation plus a
// translation, with a validity flag that tracks whether the most recent
// TX reply for the owning tool carried numeric data.
type Pose struct {
	Rotation    quat.Number
	Translation r3.Vector
	Valid       bool
}

// StrayMarkerRows holds the fixed 50x5 stray-marker table from §3:
// column 0 is occupancy, column 1 is in-volume, columns 2-4 are x/y/z in
// millimetres. Rows beyond the reported count are left zero.
type StrayMarkerRows [50][5]float64

// MaxStrayMarkers is the fixed row count of the stray-marker table.
const MaxStrayMarkers = 50

// Tool is the identity and live pose of one tracked object.
type Tool struct {
	Name           string
	SerialNumber   string
	DefinitionPath string
	PortHandle     string
	MainType       string
	ManufacturerID string
	ToolRevision   string
	PartNumber     string
	TooltipOffset  r3.Vector

	TooltipPose Pose
	MarkerPose  Pose
	ErrorRMS    float64
	FrameNumber uint32
}

// ApplyTooltipOffset derives the tooltip pose from a freshly decoded
// marker pose: same rotation, translation shifted by the rotation applied
// to the tool's local tooltip offset. Both poses carry the same validity.
func (t *Tool) ApplyTooltipOffset(marker Pose) {
	t.MarkerPose = marker
	if !marker.Valid {
		t.TooltipPose.Valid = false
		return
	}
	offset := RotateVector(marker.Rotation, t.TooltipOffset)
	t.TooltipPose = Pose{
		Rotation:    marker.Rotation,
		Translation: marker.Translation.Add(offset),
		Valid:       true,
	}
}
