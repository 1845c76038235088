package harness

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

// TodoView is what one rendered list item shows.
type TodoView struct {
	Index     int    `json:"index" yaml:"index"`
	Text      string `json:"text" yaml:"text"`
	Completed bool   `json:"completed" yaml:"completed"`
	Editing   bool   `json:"editing" yaml:"editing"`
}

func (v TodoView) String() string {
	mark := " "
	if v.Completed {
		mark = "x"
	}
	suffix := ""
	if v.Editing {
		suffix = " (editing)"
	}
	return fmt.Sprintf("%d [%s] %s%s", v.Index, mark, v.Text, suffix)
}

// Snapshot reads the rendered list and returns one view per item, in display order.
// A page without a list container yields an empty snapshot.
func (s *Session) Snapshot() ([]TodoView, error) {
	n, err := s.Count(SelList)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return []TodoView{}, nil
	}

	var html string
	if err := s.run(s.fixture.ElementTimeout(), chromedp.OuterHTML(SelList, &html, chromedp.ByQuery)); err != nil {
		return nil, s.elementError(SelList, err)
	}

	return ParseTodoList(html)
}

// ParseTodoList parses the outer HTML of the list container. Completion is read from the
// completed class, since the checked state of the toggle is a property, not markup.
func ParseTodoList(html string) ([]TodoView, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse list HTML: %w", err)
	}

	views := []TodoView{}
	doc.Find(SelList).First().ChildrenFiltered("li").Each(func(i int, li *goquery.Selection) {
		text := strings.TrimSpace(li.Find(SelLabel).First().Text())
		if text == "" {
			text = strings.TrimSpace(li.Text())
		}
		views = append(views, TodoView{
			Index:     i,
			Text:      text,
			Completed: li.HasClass(ClassCompleted),
			Editing:   li.HasClass(ClassEditing),
		})
	})

	return views, nil
}
