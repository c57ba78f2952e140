package extract

import (
	"fmt"
	"strings"

	"linkdraft/internal/domain"
	"linkdraft/internal/selector"
)

// Post extracts the feed post a comment box belongs to. The open comment box
// anchors the lookup so the right post is chosen when several are on screen.
// Returns false when no post container can be located or a text post has no
// readable content.
func (e *Extractor) Post() (domain.PostContext, bool) {
	var post domain.PostContext

	container := e.res.Resolve(selector.PostContainer, nil)
	if box := e.res.Resolve(selector.CommentBox, nil); box != nil {
		if anchored := e.closestConcept(box, selector.PostContainer); anchored != nil {
			container = anchored
		}
	}
	if container == nil {
		e.logger.Debug("post container not found")
		return post, false
	}

	if el := e.res.Resolve(selector.PostAuthorName, container); el != nil {
		post.AuthorName = el.Text()
	}
	if el := e.res.Resolve(selector.PostAuthorHeadline, container); el != nil {
		post.AuthorHeadline = el.Text()
	}
	if el := e.res.Resolve(selector.PostContent, container); el != nil {
		post.Content = el.Text()
	}
	// Expanded "see more" text supersedes the collapsed preview.
	if el := e.res.Resolve(selector.PostContentExpanded, container); el != nil && el.Text() != "" {
		post.Content = el.Text()
	}

	post.Kind = domain.PostText
	switch {
	case e.res.Resolve(selector.PostImage, container) != nil:
		post.Kind = domain.PostImage
	case e.res.Resolve(selector.PostVideo, container) != nil:
		post.Kind = domain.PostVideo
	case e.res.Resolve(selector.PostArticle, container) != nil:
		post.Kind = domain.PostArticle
	case e.res.Resolve(selector.PostCelebration, container) != nil:
		post.Kind = domain.PostCelebration
	}
	if header := e.res.Resolve(selector.PostHeader, container); header != nil {
		if strings.Contains(strings.ToLower(header.Text()), "celebrating") {
			post.Kind = domain.PostCelebration
		}
	}

	if post.Content == "" {
		if post.Kind == domain.PostText {
			e.logger.Debug("post content not found")
			return post, false
		}
		post.Content = fmt.Sprintf("[%s post]", post.Kind)
	}

	return post, true
}
