package services

import (
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/emilythestrangee/solarrank/backend/internal/models"
)

// VoteLedger owns vote rows and the derived energy counters. Every
// mutation runs as a single transaction: the vote row change and the
// counter updates commit together or not at all.
type VoteLedger struct {
	db *gorm.DB
}

func NewVoteLedger(db *gorm.DB) *VoteLedger {
	return &VoteLedger{db: db}
}

func voteValue(voteType string) (int, error) {
	switch voteType {
	case "positive":
		return 1, nil
	case "negative":
		return -1, nil
	default:
		return 0, ErrInvalidVoteType
	}
}

// VotePost records or adjusts the voter's vote on a post.
// Re-submitting the same direction is a no-op; switching direction
// applies the delta between new and old values to the post's energy
// and the author's total energy.
func (l *VoteLedger) VotePost(postID int, voteType string, voterID int) error {
	value, err := voteValue(voteType)
	if err != nil {
		return err
	}

	return l.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		if post.UserID == voterID {
			return ErrSelfVote
		}

		var existing models.Vote
		err := tx.
			Where("user_id = ? AND target_type = ? AND target_id = ?", voterID, models.TargetPost, postID).
			First(&existing).Error

		switch {
		case err == nil:
			if existing.Value == value {
				// Same direction again: nothing to apply.
				return nil
			}
			delta := value - existing.Value
			if err := tx.Model(&models.Vote{}).Where("id = ?", existing.ID).Update("value", value).Error; err != nil {
				return err
			}
			return applyPostEnergy(tx, post.ID, post.UserID, delta)

		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.Vote{
				UserID:     voterID,
				TargetType: models.TargetPost,
				TargetID:   postID,
				Value:      value,
			}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			return applyPostEnergy(tx, post.ID, post.UserID, value)

		default:
			return err
		}
	})
}

// UnvotePost deletes the voter's vote and reverses exactly its value.
func (l *VoteLedger) UnvotePost(postID, voterID int) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		var existing models.Vote
		err := tx.
			Where("user_id = ? AND target_type = ? AND target_id = ?", voterID, models.TargetPost, postID).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotVoted
		}
		if err != nil {
			return err
		}

		if err := tx.Delete(&models.Vote{}, existing.ID).Error; err != nil {
			return err
		}
		return applyPostEnergy(tx, post.ID, post.UserID, -existing.Value)
	})
}

// VoteComment mirrors VotePost for comments. Comment energy does not
// contribute to the author's total_energy, so only the comment counter
// moves.
func (l *VoteLedger) VoteComment(commentID int, voteType string, voterID int) error {
	value, err := voteValue(voteType)
	if err != nil {
		return err
	}

	return l.db.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommentNotFound
			}
			return err
		}

		if comment.UserID == voterID {
			return ErrSelfVote
		}

		var existing models.Vote
		err := tx.
			Where("user_id = ? AND target_type = ? AND target_id = ?", voterID, models.TargetComment, commentID).
			First(&existing).Error

		switch {
		case err == nil:
			if existing.Value == value {
				return nil
			}
			delta := value - existing.Value
			if err := tx.Model(&models.Vote{}).Where("id = ?", existing.ID).Update("value", value).Error; err != nil {
				return err
			}
			return applyCommentEnergy(tx, comment.ID, delta)

		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.Vote{
				UserID:     voterID,
				TargetType: models.TargetComment,
				TargetID:   commentID,
				Value:      value,
			}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			return applyCommentEnergy(tx, comment.ID, value)

		default:
			return err
		}
	})
}

// UnvoteComment deletes the voter's comment vote and reverses it.
func (l *VoteLedger) UnvoteComment(commentID, voterID int) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommentNotFound
			}
			return err
		}

		var existing models.Vote
		err := tx.
			Where("user_id = ? AND target_type = ? AND target_id = ?", voterID, models.TargetComment, commentID).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotVoted
		}
		if err != nil {
			return err
		}

		if err := tx.Delete(&models.Vote{}, existing.ID).Error; err != nil {
			return err
		}
		return applyCommentEnergy(tx, comment.ID, -existing.Value)
	})
}

// applyPostEnergy moves a post's energy and its author's total energy
// by delta with atomic in-database arithmetic. Called only inside a
// ledger transaction.
func applyPostEnergy(tx *gorm.DB, postID, authorID, delta int) error {
	if err := tx.Model(&models.Post{}).Where("id = ?", postID).
		Update("energy", gorm.Expr("energy + ?", delta)).Error; err != nil {
		return err
	}
	return tx.Model(&models.User{}).Where("id = ?", authorID).
		Update("total_energy", gorm.Expr("total_energy + ?", delta)).Error
}

func applyCommentEnergy(tx *gorm.DB, commentID, delta int) error {
	return tx.Model(&models.Comment{}).Where("id = ?", commentID).
		Update("energy", gorm.Expr("energy + ?", delta)).Error
}

// Feed types returned by ListPosts.

type FeedAuthor struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	ProfileImage string `json:"profile_image"`
	Rank         int    `json:"rank"`
	Company      string `json:"company"`
	TotalEnergy  int    `json:"total_energy"`
}

type FeedPost struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Tags      []string  `json:"tags"`
	Energy    int       `json:"energy"`
	CreatedAt time.Time `json:"created_at"`
}

type FeedComment struct {
	ID        int        `json:"id"`
	Body      string     `json:"body"`
	Energy    int        `json:"energy"`
	CreatedAt time.Time  `json:"created_at"`
	User      FeedAuthor `json:"user"`
}

type FeedComments struct {
	Count      int          `json:"count"`
	TopComment *FeedComment `json:"top_comment"`
}

type FeedItem struct {
	Vote     *string       `json:"vote"`
	User     FeedAuthor    `json:"user"`
	Post     FeedPost      `json:"post"`
	Comments *FeedComments `json:"comments"`
}

// feedRow is the flat scan target for the feed query.
type feedRow struct {
	Vote *int

	ID        int
	Title     string
	Body      string
	Tags      pq.StringArray `gorm:"type:text[]"`
	Energy    int
	CreatedAt time.Time

	UserID           int
	UserName         string
	UserProfileImage string
	UserRank         int
	UserCompany      string
	UserTotalEnergy  int

	CommentCount int

	TopCommentID        *int
	TopCommentBody      *string
	TopCommentEnergy    *int
	TopCommentCreatedAt *time.Time

	TopCommentUserID           *int
	TopCommentUserName         *string
	TopCommentUserProfileImage *string
	TopCommentUserRank         *int
	TopCommentUserCompany      *string
	TopCommentUserTotalEnergy  *int
}

const feedQuery = `
SELECT
  v.value AS vote,
  p.id, p.title, p.body, p.tags, p.energy, p.created_at,
  u.id AS user_id,
  u.name AS user_name,
  u.profile_image AS user_profile_image,
  u.rank AS user_rank,
  u.company AS user_company,
  u.total_energy AS user_total_energy,
  COALESCE(cs.comment_count, 0) AS comment_count,
  tc.id AS top_comment_id,
  tc.body AS top_comment_body,
  tc.energy AS top_comment_energy,
  tc.created_at AS top_comment_created_at,
  cu.id AS top_comment_user_id,
  cu.name AS top_comment_user_name,
  cu.profile_image AS top_comment_user_profile_image,
  cu.rank AS top_comment_user_rank,
  cu.company AS top_comment_user_company,
  cu.total_energy AS top_comment_user_total_energy
FROM posts p
JOIN users u ON p.user_id = u.id
LEFT JOIN (
  SELECT post_id, COUNT(*) AS comment_count
  FROM comments
  GROUP BY post_id
) cs ON p.id = cs.post_id
LEFT JOIN (
  SELECT DISTINCT ON (post_id) post_id, id, user_id, body, energy, created_at
  FROM comments
  ORDER BY post_id, energy DESC, id ASC
) tc ON p.id = tc.post_id
LEFT JOIN users cu ON tc.user_id = cu.id
LEFT JOIN votes v ON v.target_type = 'post' AND v.target_id = p.id AND v.user_id = ?
ORDER BY p.created_at DESC, p.id DESC
`

// ListPosts returns every post, newest first, joined with its author,
// the viewer's own vote, the comment count and the highest-energy
// comment (ties broken by lowest comment id). viewerID 0 means
// anonymous.
func (l *VoteLedger) ListPosts(viewerID int) ([]FeedItem, error) {
	var rows []feedRow
	if err := l.db.Raw(feedQuery, viewerID).Scan(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]FeedItem, 0, len(rows))
	for _, row := range rows {
		item := FeedItem{
			Vote: voteLabel(row.Vote),
			User: FeedAuthor{
				ID:           row.UserID,
				Name:         row.UserName,
				ProfileImage: row.UserProfileImage,
				Rank:         row.UserRank,
				Company:      row.UserCompany,
				TotalEnergy:  row.UserTotalEnergy,
			},
			Post: FeedPost{
				ID:        row.ID,
				Title:     row.Title,
				Body:      row.Body,
				Tags:      []string(row.Tags),
				Energy:    row.Energy,
				CreatedAt: row.CreatedAt,
			},
		}
		if row.CommentCount > 0 {
			item.Comments = &FeedComments{Count: row.CommentCount}
			if row.TopCommentID != nil {
				item.Comments.TopComment = &FeedComment{
					ID:        *row.TopCommentID,
					Body:      *row.TopCommentBody,
					Energy:    *row.TopCommentEnergy,
					CreatedAt: *row.TopCommentCreatedAt,
					User: FeedAuthor{
						ID:           *row.TopCommentUserID,
						Name:         *row.TopCommentUserName,
						ProfileImage: *row.TopCommentUserProfileImage,
						Rank:         *row.TopCommentUserRank,
						Company:      *row.TopCommentUserCompany,
						TotalEnergy:  *row.TopCommentUserTotalEnergy,
					},
				}
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func voteLabel(value *int) *string {
	if value == nil {
		return nil
	}
	var label string
	switch *value {
	case 1:
		label = "positive"
	case -1:
		label = "negative"
	default:
		return nil
	}
	return &label
}
