package render

import (
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Nixie-Tech-LLC/tilawat/internal/likes"
)

// Like button labels.
const (
	LabelLike   = "إعجاب"
	LabelLiking = "جار الإعجاب..."
	LabelLiked  = "تم الإعجاب"
)

// BoundAttr marks a like button that has already been through BindLikeButtons.
const BoundAttr = "data-bound"

var digits = regexp.MustCompile(`\d+`)

// LikedLabel is the label of a liked button showing count.
func LikedLabel(count string) string {
	return fmt.Sprintf("%s (%s)", LabelLiked, count)
}

// BindLikeButtons reconciles rendered like buttons with the liked set.
// Liked buttons are disabled and show the current count; the others are
// marked bound. A button that already carries the marker is left as is.
func BindLikeButtons(markup template.HTML, liked likes.Set) (template.HTML, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(markup)))
	if err != nil {
		return "", fmt.Errorf("parse markup: %w", err)
	}

	doc.Find("button.like-btn").Each(func(_ int, btn *goquery.Selection) {
		id, _ := btn.Attr("data-id")
		if liked.Has(id) {
			btn.SetAttr("disabled", "disabled")
			btn.AddClass("already-liked")
			btn.SetText(LikedLabel(likeCount(btn)))
			return
		}
		if _, bound := btn.Attr(BoundAttr); bound {
			return
		}
		btn.SetAttr(BoundAttr, "true")
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("serialize markup: %w", err)
	}
	return template.HTML(out), nil
}

func likeCount(btn *goquery.Selection) string {
	text := btn.Closest(".recitation-actions").Find(".like-count").Text()
	if n := digits.FindString(text); n != "" {
		return n
	}
	return "?"
}

// MarkLikeFailed shows a like that did not go through: the button of id
// gets label and the given enabled state, and message is shown after its
// form. Buttons already liked are left alone.
func MarkLikeFailed(markup template.HTML, id, label, message string, disabled bool) (template.HTML, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(markup)))
	if err != nil {
		return "", fmt.Errorf("parse markup: %w", err)
	}

	doc.Find("button.like-btn").FilterFunction(func(_ int, btn *goquery.Selection) bool {
		return btn.AttrOr("data-id", "") == id && !btn.HasClass("already-liked")
	}).Each(func(_ int, btn *goquery.Selection) {
		btn.SetText(label)
		btn.AddClass("like-failed")
		if disabled {
			btn.SetAttr("disabled", "disabled")
		} else {
			btn.RemoveAttr("disabled")
		}
		btn.Closest("form").AfterHtml(`<span class="like-error">` + template.HTMLEscapeString(message) + `</span>`)
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("serialize markup: %w", err)
	}
	return template.HTML(out), nil
}
