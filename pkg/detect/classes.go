package detect

// COCOClasses contains the 80 COCO class names in model output order.
var COCOClasses = []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck", "boat",
	"traffic light", "fire hydrant", "stop sign", "parking meter", "bench", "bird", "cat",
	"dog", "horse", "sheep", "cow", "elephant", "bear", "zebra", "giraffe", "backpack",
	"umbrella", "handbag", "tie", "suitcase", "frisbee", "skis", "snowboard", "sports ball",
	"kite", "baseball bat", "baseball glove", "skateboard", "surfboard", "tennis racket",
	"bottle", "wine glass", "cup", "fork", "knife", "spoon", "bowl", "banana", "apple",
	"sandwich", "orange", "broccoli", "carrot", "hot dog", "pizza", "donut", "cake", "chair",
	"couch", "potted plant", "bed", "dining table", "toilet", "tv", "laptop", "mouse",
	"remote", "keyboard", "cell phone", "microwave", "oven", "toaster", "sink", "refrigerator",
	"book", "clock", "vase", "scissors", "teddy bear", "hair drier", "toothbrush",
}

// ClassName returns the class name for a model class id, or "object" for
// ids outside the model's range.
func ClassName(id int) string {
	if id < 0 || id >= len(COCOClasses) {
		return "object"
	}
	return COCOClasses[id]
}

// classDanger maps class names to danger levels for a pedestrian walking
// into them. Anything absent is DangerUnknown.
var classDanger = map[string]DangerLevel{
	// Vehicles and fall hazards can seriously injure.
	"car": DangerCritical, "bus": DangerCritical, "truck": DangerCritical,
	"train": DangerCritical, "motorcycle": DangerCritical, "stairs": DangerCritical,

	// Moving obstacles at walking height.
	"person": DangerHigh, "bicycle": DangerHigh, "dog": DangerHigh, "horse": DangerHigh,

	// Stationary furniture and fixtures at tripping height.
	"chair": DangerMedium, "bench": DangerMedium, "couch": DangerMedium,
	"bed": DangerMedium, "dining table": DangerMedium, "toilet": DangerMedium,
	"fire hydrant": DangerMedium, "parking meter": DangerMedium,
	"potted plant": DangerMedium, "suitcase": DangerMedium, "refrigerator": DangerMedium,

	// Small objects unlikely to cause a fall.
	"backpack": DangerLow, "handbag": DangerLow, "umbrella": DangerLow,
	"bottle": DangerLow, "cup": DangerLow, "bowl": DangerLow, "book": DangerLow,
	"laptop": DangerLow, "cat": DangerLow, "sports ball": DangerLow,

	// Context cues, not obstacles.
	"traffic light": DangerInfo, "stop sign": DangerInfo, "clock": DangerInfo,
	"tv": DangerInfo,
}

// ClassDanger returns the static danger level for a class name.
func ClassDanger(name string) DangerLevel {
	if level, ok := classDanger[name]; ok {
		return level
	}
	return DangerUnknown
}

// DefaultObjectHeight is the assumed real-world height in meters for
// classes without a known height.
const DefaultObjectHeight = 0.5

// knownHeights holds typical real-world object heights in meters, used by
// the pinhole distance heuristic.
var knownHeights = map[string]float64{
	"person":        1.70,
	"bicycle":       1.00,
	"car":           1.50,
	"motorcycle":    1.10,
	"bus":           3.20,
	"truck":         3.50,
	"train":         4.00,
	"traffic light": 0.30,
	"fire hydrant":  0.75,
	"stop sign":     0.75,
	"parking meter": 1.20,
	"bench":         0.85,
	"cat":           0.25,
	"dog":           0.50,
	"horse":         1.60,
	"backpack":      0.45,
	"suitcase":      0.70,
	"chair":         0.90,
	"couch":         0.80,
	"potted plant":  0.40,
	"bed":           0.60,
	"dining table":  0.75,
	"toilet":        0.40,
	"refrigerator":  1.70,
	"stairs":        1.50,
}

// KnownHeight returns the typical real-world height in meters for a class,
// falling back to DefaultObjectHeight.
func KnownHeight(name string) float64 {
	if h, ok := knownHeights[name]; ok {
		return h
	}
	return DefaultObjectHeight
}
