package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/csams/rhymer/internal/models"
	"github.com/csams/rhymer/internal/search"
)

var favoritesHelp = []string{
	"",
	"Navigation:",
	"  j / k         Move down/up",
	"  g / G         Go to top/bottom",
	"",
	"Search:",
	"  /             Start fuzzy search",
	"  Enter         Keep results and leave search",
	"  Esc           Clear search",
	"",
	"Other:",
	"  ?             Show this help dialog",
	"  q             Quit",
	"",
}

// FavoritesView lists favorite rhymes with a live fuzzy filter
type FavoritesView struct {
	favorites []models.FavoriteRhyme
	results   []search.ScoredFavorite
	query     []rune
	searching bool
	minScore  int
	selected  int
	offset    int
	height    int
	help      *HelpDialog
}

// NewFavoritesView creates a view over favorites
func NewFavoritesView(favorites []models.FavoriteRhyme, minScore int) *FavoritesView {
	v := &FavoritesView{
		favorites: favorites,
		minScore:  minScore,
		help:      NewHelpDialog(favoritesHelp),
	}
	v.refresh()
	return v
}

// Query returns the current search text
func (v *FavoritesView) Query() string {
	return string(v.query)
}

// Results returns the favorites currently shown
func (v *FavoritesView) Results() []search.ScoredFavorite {
	return v.results
}

// Selected returns the highlighted favorite
func (v *FavoritesView) Selected() (models.FavoriteRhyme, bool) {
	if v.selected < 0 || v.selected >= len(v.results) {
		return models.FavoriteRhyme{}, false
	}
	return v.results[v.selected].Favorite, true
}

func (v *FavoritesView) refresh() {
	m := search.NewMatcher(string(v.query))
	m.SetMinScore(v.minScore)
	v.results = m.Favorites(v.favorites)
	v.selected = max(0, min(v.selected, len(v.results)-1))
}

func (v *FavoritesView) Draw(s tcell.Screen) {
	w, h := s.Size()
	v.height = max(h-1, 0)

	if v.selected < v.offset {
		v.offset = v.selected
	}
	if v.height > 0 && v.selected >= v.offset+v.height {
		v.offset = v.selected - v.height + 1
	}

	base := BaseStyle()
	for row := 0; row < v.height && v.offset+row < len(v.results); row++ {
		i := v.offset + row
		r := v.results[i]

		style := base
		indicator := "  "
		if i == v.selected {
			style = style.Background(ColorBgHighlight)
			indicator = "> "
			for x := 0; x < w; x++ {
				s.SetContent(x, row, ' ', nil, style)
			}
		}
		drawText(s, 0, row, style.Foreground(ColorAccent), indicator)

		rhymePositions, wordPositions := r.Positions, []int(nil)
		if r.Field == "word" {
			rhymePositions, wordPositions = nil, r.Positions
		}
		rhyme := r.Favorite.Rhyme
		drawTextWithHighlight(s, 2, row, max(w-2, 0), style, rhyme, rhymePositions)

		col := 2 + len([]rune(rhyme)) + 2
		if col < w {
			drawTextWithHighlight(s, col, row, w-col, style.Foreground(ColorStatus), r.Favorite.Word, wordPositions)
		}
	}

	left := fmt.Sprintf("%d favorites", len(v.results))
	if v.searching || len(v.query) > 0 {
		left = "/" + string(v.query)
	}
	drawStatusBar(s, left, fmt.Sprintf("%d/%d", min(v.selected+1, len(v.results)), len(v.results)))

	v.help.Draw(s)
}

func (v *FavoritesView) HandleKey(ev *tcell.EventKey) (bool, bool) {
	if v.help.IsVisible() {
		return v.help.HandleKey(ev), false
	}
	if v.searching {
		return v.handleSearchKey(ev), false
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		if len(v.query) > 0 {
			v.query = nil
			v.refresh()
			return true, false
		}
		return false, true
	case tcell.KeyDown:
		return v.move(1), false
	case tcell.KeyUp:
		return v.move(-1), false
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false, true
		case 'j':
			return v.move(1), false
		case 'k':
			return v.move(-1), false
		case 'g':
			return v.move(-v.selected), false
		case 'G':
			return v.move(len(v.results)), false
		case '/':
			v.searching = true
			return true, false
		case '?':
			v.help.Show()
			return true, false
		}
	}
	return false, false
}

func (v *FavoritesView) handleSearchKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEnter:
		v.searching = false
	case tcell.KeyEscape:
		v.searching = false
		v.query = nil
		v.refresh()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(v.query) > 0 {
			v.query = v.query[:len(v.query)-1]
			v.refresh()
		}
	case tcell.KeyRune:
		v.query = append(v.query, ev.Rune())
		v.refresh()
	default:
		return false
	}
	return true
}

func (v *FavoritesView) move(n int) bool {
	next := max(0, min(v.selected+n, len(v.results)-1))
	if next == v.selected {
		return false
	}
	v.selected = next
	return true
}
