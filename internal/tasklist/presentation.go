package tasklist

// Presentation is the background image and accent colour of a screen.
type Presentation struct {
	Image string
	Color string
}

var (
	todayPresentation    = Presentation{Image: "today.jpg", Color: "#B13B44"}
	tomorrowPresentation = Presentation{Image: "tomorrow.jpg", Color: "#C9742E"}
	weekPresentation     = Presentation{Image: "week.jpg", Color: "#15721E"}
	monthPresentation    = Presentation{Image: "month.jpg", Color: "#1631BE"}
)

// PresentationFor returns the assets for a look-ahead of days.
// Every value not matching today, tomorrow or week gets the month assets.
func PresentationFor(days int) Presentation {
	switch days {
	case 0:
		return todayPresentation
	case 1:
		return tomorrowPresentation
	case 7:
		return weekPresentation
	default:
		return monthPresentation
	}
}

// Presentation returns the assets of the screen.
func (w Window) Presentation() Presentation {
	return PresentationFor(w.Days())
}
