// Package selector maps logical concepts ("message thread", "sender name") to
// ordered lists of structural matchers. The host site reshuffles its markup
// frequently, so every concept carries fallbacks; order encodes preference and
// the first structural hit wins. Tables are configuration, not logic: they can
// be overridden from YAML without touching the traversal code.
package selector

import (
	"fmt"

	"linkdraft/internal/dom"
)

// Concept names one logical thing the extractor needs to locate.
type Concept string

const (
	MessageThread      Concept = "messageThread"
	MessageItem        Concept = "messageItem"
	MessageContent     Concept = "messageContent"
	MessageSender      Concept = "messageSender"
	MessageTimestamp   Concept = "messageTimestamp"
	DateSeparator      Concept = "dateSeparator"
	SelfMessage        Concept = "selfMessage"
	MessageGroup       Concept = "messageGroup"
	MessageGroupSender Concept = "messageGroupSender"
	MessageInput       Concept = "messageInput"
	ComposeSurface     Concept = "composeSurface"
	ConversationHeader Concept = "conversationHeader"
	RecipientLink      Concept = "recipientProfileLink"
	RecipientHeadline  Concept = "recipientHeadline"
	CurrentUserName    Concept = "currentUserName"
	CurrentUserPhoto   Concept = "currentUserPhoto"
	IdentityHeadline   Concept = "identityHeadline"
	MessagingSurface   Concept = "messagingSurface"

	ExperienceCompany     Concept = "experienceCompany"
	ExperienceDescription Concept = "experienceDescription"
	ExperienceSection     Concept = "experienceSection"

	PostContainer       Concept = "postContainer"
	PostAuthorName      Concept = "postAuthorName"
	PostAuthorHeadline  Concept = "postAuthorHeadline"
	PostContent         Concept = "postContent"
	PostContentExpanded Concept = "postContentExpanded"
	PostImage           Concept = "postImage"
	PostVideo           Concept = "postVideo"
	PostArticle         Concept = "postArticle"
	PostCelebration     Concept = "postCelebration"
	PostHeader          Concept = "postHeader"
	CommentBox          Concept = "commentBox"
)

// defaults carries the built-in matcher lists. Entries mirror the production
// site's class vocabulary across several layout generations; keep additions at
// the end unless a newer layout should win.
var defaults = map[Concept][]string{
	MessageThread: {
		`[class*=msg-s-message-list]`,
		`.msg-s-message-list-container`,
		`[data-test-id=message-list]`,
		`.msg-thread`,
		`.msg-conversations-container__conversations-list`,
	},
	MessageItem: {
		`.msg-s-message-list__event`,
		`[class*=msg-s-event-listitem]`,
		`.msg-s-message-group`,
		`[class*=msg-s-message-list-content]`,
	},
	MessageContent: {
		`.msg-s-event-listitem__body`,
		`[class*=msg-s-event-listitem__message-body]`,
		`.msg-s-message-group__content`,
		`[class*=msg-s-event-listitem__body] p`,
		`.msg-s-event__content`,
	},
	MessageSender: {
		`.msg-s-message-group__name`,
		`[class*=msg-s-message-group__profile-link]`,
		`.msg-s-event-listitem__profile-link`,
		`.msg-s-message-group__meta .msg-s-message-group__name`,
		`[class*=msg-s-event-listitem] [class*=profile-link]`,
	},
	MessageTimestamp: {
		`.msg-s-message-group__timestamp`,
		`[class*=msg-s-message-list__time-heading]`,
		`.msg-s-event-listitem__timestamp`,
		`time`,
		`[class*=timestamp]`,
		`.msg-s-message-group__meta time`,
		`[datetime]`,
	},
	DateSeparator: {
		`.msg-s-message-list__time-heading`,
		`[class*=time-heading]`,
		`.msg-s-message-list__separator`,
		`[class*=date-separator]`,
	},
	SelfMessage: {
		`.msg-s-message-list__event--self-sent`,
		`[class*=msg-s-event-listitem--self]`,
		`[class*=self-sent]`,
		`[class*=msg-s-message-group--self]`,
		`[data-sender-type=self]`,
	},
	MessageGroup: {
		`.msg-s-message-group`,
		`[class*=msg-s-message-group]`,
	},
	MessageGroupSender: {
		`.msg-s-message-group__name`,
		`.msg-s-message-group__profile-link`,
		`[class*=msg-s-message-group__name]`,
	},
	MessageInput: {
		`.msg-form__contenteditable`,
		`[data-test-id=message-textbox]`,
		`[contenteditable=true][role=textbox]`,
		`.msg-form__message-texteditor [contenteditable]`,
	},
	ComposeSurface: {
		`.msg-overlay-conversation-bubble`,
		`.msg-convo-wrapper`,
		`[class*=msg-overlay-conversation-bubble]`,
		`[class*=msg-overlay-bubble]`,
		`[class*=msg-]`,
	},
	ConversationHeader: {
		`.msg-overlay-bubble-header__title`,
		`.msg-conversation-card__content`,
		`[class*=msg-overlay-bubble-header]`,
		`.msg-thread__link-to-profile`,
		`.msg-overlay-bubble-header h2`,
		`.msg-compose-form-v2__pill`,
		`.msg-connections-typeahead__search-result--selected`,
		`[class*=msg-compose] [class*=pill]`,
	},
	RecipientLink: {
		`.msg-thread__link-to-profile`,
		`.msg-overlay-bubble-header a[href*=/in/]`,
		`.msg-s-message-group__profile-link`,
		`[class*=msg-thread] a[href*=/in/]`,
	},
	RecipientHeadline: {
		`.msg-overlay-bubble-header__subtitle`,
		`.msg-s-profile-card__subtitle`,
		`.msg-thread__headline`,
	},
	CurrentUserName: {
		`.feed-identity-module__actor-meta a`,
		`.feed-identity-module__member-name`,
		`.global-nav__me-content .t-16`,
		`.profile-rail-card__actor-link`,
	},
	CurrentUserPhoto: {
		`.global-nav__me-photo`,
		`.feed-identity-module__member-photo`,
		`[class*=nav-item__profile-member-photo]`,
		`.global-nav__primary-link-me-menu-trigger img`,
		`[data-control-name=identity_profile_photo] img`,
	},
	IdentityHeadline: {
		`.feed-identity-module__headline`,
		`.profile-rail-card__headline`,
	},
	MessagingSurface: {
		`.msg-overlay-list-bubble`,
		`.msg-conversation-listitem`,
		`#messaging`,
		`.msg-overlay-conversation-bubble`,
		`[class*=msg-overlay]`,
		`.msg-compose-form-v2`,
		`[class*=msg-compose]`,
	},
	ExperienceSection: {
		`#experience`,
		`[id*=experience]`,
		`section.experience`,
	},
	ExperienceCompany: {
		`[id*=experience] .t-bold span[aria-hidden=true]`,
		`.experience-section .pv-entity__secondary-title`,
		`[class*=experience] [class*=company-name]`,
		`.pvs-entity--with-path .t-bold span[aria-hidden=true]`,
	},
	ExperienceDescription: {
		`.experience-section .pv-entity__description`,
		`[class*=experience] [class*=description]`,
		`.pv-profile-section__card-item-v2 .pv-entity__extra-details`,
		`[data-field=experience_description]`,
		`[class*=experience] ul li span[aria-hidden=true]`,
		`.pv-shared-text-with-see-more span[aria-hidden=true]`,
	},
	PostContainer: {
		`.feed-shared-update-v2`,
		`.feed-shared-update`,
		`[data-urn]`,
	},
	PostAuthorName: {
		`.update-components-actor__name span[aria-hidden=true]`,
		`.feed-shared-actor__name span[aria-hidden=true]`,
		`.update-components-actor__title span[aria-hidden=true]`,
	},
	PostAuthorHeadline: {
		`.update-components-actor__description`,
		`.feed-shared-actor__description`,
		`.update-components-actor__subtitle`,
	},
	PostContent: {
		`.feed-shared-update-v2__description`,
		`.feed-shared-text`,
		`.update-components-text`,
		`.feed-shared-inline-show-more-text`,
		`[data-test-id=main-feed-activity-card__commentary]`,
	},
	PostContentExpanded: {
		`.feed-shared-inline-show-more-text--expanded`,
	},
	PostImage: {
		`.feed-shared-image`,
		`.update-components-image`,
	},
	PostVideo: {
		`.feed-shared-linkedin-video`,
		`video`,
	},
	PostArticle: {
		`.feed-shared-article`,
		`.update-components-article`,
	},
	PostCelebration: {
		`.feed-shared-celebration`,
		`[data-celebration]`,
	},
	PostHeader: {
		`.feed-shared-header`,
		`.update-components-header`,
	},
	CommentBox: {
		`.comments-comment-box`,
		`.comments-comment-texteditor`,
		`.comments-comment-box__form`,
		`[data-placeholder*=comment]`,
	},
}

// Table holds compiled matcher lists per concept.
type Table struct {
	matchers map[Concept][]*dom.Matcher
	sources  map[Concept][]string
}

// DefaultTable compiles the built-in lists. Compilation failures here are
// programming errors and panic via MustCompile.
func DefaultTable() *Table {
	t := &Table{
		matchers: make(map[Concept][]*dom.Matcher, len(defaults)),
		sources:  make(map[Concept][]string, len(defaults)),
	}
	for concept, sels := range defaults {
		for _, s := range sels {
			t.matchers[concept] = append(t.matchers[concept], dom.MustCompile(s))
		}
		t.sources[concept] = sels
	}
	return t
}

// Override replaces one concept's matcher list.
func (t *Table) Override(concept Concept, sels []string) error {
	if len(sels) == 0 {
		return fmt.Errorf("concept %s: empty selector list", concept)
	}
	compiled := make([]*dom.Matcher, 0, len(sels))
	for _, s := range sels {
		m, err := dom.Compile(s)
		if err != nil {
			return fmt.Errorf("concept %s: %w", concept, err)
		}
		compiled = append(compiled, m)
	}
	t.matchers[concept] = compiled
	t.sources[concept] = sels
	return nil
}

// Matchers returns the ordered list for a concept (nil when unknown).
func (t *Table) Matchers(concept Concept) []*dom.Matcher {
	return t.matchers[concept]
}

// Sources returns the selector strings behind a concept, for diagnostics.
func (t *Table) Sources(concept Concept) []string {
	return t.sources[concept]
}
