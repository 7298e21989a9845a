package landmark

// ThumbsUpLandmarks returns a preset HandLandmarks representing a thumbs up gesture.
// The thumb is extended upward while other fingers are curled.
func ThumbsUpLandmarks() HandLandmarks {
	landmarks := fist()

	// Thumb extended upward (pointing up, Y decreases going up)
	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.0}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.65, Z: 0.0}
	landmarks.Points[ThumbIP] = Point3D{X: 0.58, Y: 0.50, Z: 0.0}
	landmarks.Points[ThumbTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	return landmarks
}

// RockLandmarks returns a closed fist with the thumb folded over the index finger.
func RockLandmarks() HandLandmarks {
	landmarks := fist()

	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.0}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.56, Y: 0.72, Z: -0.01}
	landmarks.Points[ThumbIP] = Point3D{X: 0.54, Y: 0.71, Z: -0.02}
	landmarks.Points[ThumbTip] = Point3D{X: 0.52, Y: 0.70, Z: -0.03}

	return landmarks
}

// OpenPalmLandmarks returns a preset HandLandmarks representing an open palm gesture.
// All fingers are extended outward.
func OpenPalmLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	// Wrist at base
	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	landmarks.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	landmarks.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	setIndex(&landmarks, true)
	setMiddle(&landmarks, true)
	setRing(&landmarks, true)
	setPinky(&landmarks, true)

	return landmarks
}

// PaperLandmarks is an alias for the open palm pose.
func PaperLandmarks() HandLandmarks {
	return OpenPalmLandmarks()
}

// ScissorsLandmarks returns a hand with the index and middle fingers extended.
func ScissorsLandmarks() HandLandmarks {
	landmarks := RockLandmarks()
	setIndex(&landmarks, true)
	setMiddle(&landmarks, true)
	return landmarks
}

// WithFingers returns a fist with the given fingers extended. Fingers are
// named by their tip index (IndexTip, MiddleTip, RingTip, PinkyTip).
func WithFingers(tips ...int) HandLandmarks {
	landmarks := RockLandmarks()
	for _, tip := range tips {
		switch tip {
		case IndexTip:
			setIndex(&landmarks, true)
		case MiddleTip:
			setMiddle(&landmarks, true)
		case RingTip:
			setRing(&landmarks, true)
		case PinkyTip:
			setPinky(&landmarks, true)
		}
	}
	return landmarks
}

// PointingAt returns an open palm translated so the index fingertip sits at (x, y).
func PointingAt(x, y float64) HandLandmarks {
	landmarks := OpenPalmLandmarks()
	tip := landmarks.Points[IndexTip]
	dx, dy := x-tip.X, y-tip.Y
	for i := range landmarks.Points {
		landmarks.Points[i].X += dx
		landmarks.Points[i].Y += dy
	}
	return landmarks
}

// FaceAt returns a minimal face mesh with the nose tip at x.
// An open mouth puts the lips 0.06 apart, a closed one 0.01.
func FaceAt(x float64, mouthOpen bool) FaceLandmarks {
	face := FaceLandmarks{
		Points: make([]Point3D, MinFacePoints),
		Score:  0.9,
	}
	for i := range face.Points {
		face.Points[i] = Point3D{X: x, Y: 0.5}
	}

	gap := 0.01
	if mouthOpen {
		gap = 0.06
	}
	face.Points[NoseTip] = Point3D{X: x, Y: 0.5, Z: -0.05}
	face.Points[UpperLip] = Point3D{X: x, Y: 0.6}
	face.Points[LowerLip] = Point3D{X: x, Y: 0.6 + gap}

	return face
}

// fist returns a right hand with all four fingers curled and the thumb unset.
func fist() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	setIndex(&landmarks, false)
	setMiddle(&landmarks, false)
	setRing(&landmarks, false)
	setPinky(&landmarks, false)

	return landmarks
}

func setIndex(h *HandLandmarks, extended bool) {
	if extended {
		h.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
		h.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
		h.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
		h.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}
		return
	}
	// Curled: tip folds back below the PIP joint
	h.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.70, Z: -0.02}
	h.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.68, Z: -0.05}
	h.Points[IndexDIP] = Point3D{X: 0.52, Y: 0.70, Z: -0.04}
	h.Points[IndexTip] = Point3D{X: 0.50, Y: 0.72, Z: -0.02}
}

func setMiddle(h *HandLandmarks, extended bool) {
	if extended {
		h.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
		h.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
		h.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
		h.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}
		return
	}
	h.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.68, Z: -0.02}
	h.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.66, Z: -0.05}
	h.Points[MiddleDIP] = Point3D{X: 0.47, Y: 0.68, Z: -0.04}
	h.Points[MiddleTip] = Point3D{X: 0.45, Y: 0.70, Z: -0.02}
}

func setRing(h *HandLandmarks, extended bool) {
	if extended {
		h.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
		h.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
		h.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
		h.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}
		return
	}
	h.Points[RingMCP] = Point3D{X: 0.45, Y: 0.70, Z: -0.02}
	h.Points[RingPIP] = Point3D{X: 0.45, Y: 0.68, Z: -0.05}
	h.Points[RingDIP] = Point3D{X: 0.42, Y: 0.70, Z: -0.04}
	h.Points[RingTip] = Point3D{X: 0.40, Y: 0.72, Z: -0.02}
}

func setPinky(h *HandLandmarks, extended bool) {
	if extended {
		h.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
		h.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
		h.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
		h.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}
		return
	}
	h.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.72, Z: -0.02}
	h.Points[PinkyPIP] = Point3D{X: 0.40, Y: 0.70, Z: -0.05}
	h.Points[PinkyDIP] = Point3D{X: 0.37, Y: 0.72, Z: -0.04}
	h.Points[PinkyTip] = Point3D{X: 0.35, Y: 0.74, Z: -0.02}
}
