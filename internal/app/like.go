package app

import (
	"fmt"
	"strconv"

	"github.com/Nixie-Tech-LLC/tilawat/internal/model"
	"github.com/Nixie-Tech-LLC/tilawat/internal/render"
)

type LikeState int

const (
	Unliked LikeState = iota
	Liking
	Liked
)

func (s LikeState) String() string {
	switch s {
	case Liking:
		return "liking"
	case Liked:
		return "liked"
	default:
		return "unliked"
	}
}

// LikeButton is the like control of one recitation item.
type LikeButton struct {
	ID    string
	Count string
	State LikeState
	Err   error
}

// BindLikeButton creates the button of id. A button bound while liked has
// no click behaviour.
func BindLikeButton(id, count string, liked bool) *LikeButton {
	b := &LikeButton{ID: id, Count: count, State: Unliked}
	if liked {
		b.State = Liked
	}
	return b
}

// FailedLikeButton is the button of id after a like that failed with err.
func FailedLikeButton(id, count string, err error) *LikeButton {
	return &LikeButton{ID: id, Count: count, State: Unliked, Err: err}
}

func (b *LikeButton) Disabled() bool { return b.State != Unliked }

func (b *LikeButton) Label() string {
	switch b.State {
	case Liking:
		return render.LabelLiking
	case Liked:
		return render.LikedLabel(b.Count)
	default:
		if b.Err != nil && b.Count != "" {
			return fmt.Sprintf("%s (%s)", render.LabelLike, b.Count)
		}
		return render.LabelLike
	}
}

// Click moves an enabled button to Liking and reports whether a like
// request should be issued.
func (b *LikeButton) Click() bool {
	if b.State != Unliked {
		return false
	}
	b.State = Liking
	b.Err = nil
	return true
}

// Resolve applies the outcome of the like request started by Click.
func (b *LikeButton) Resolve(res model.LikeResult, err error) {
	if b.State != Liking {
		return
	}
	if err != nil {
		b.State = Unliked
		b.Err = err
		return
	}
	if res.Likes != nil {
		b.Count = strconv.Itoa(*res.Likes)
	}
	b.State = Liked
}
