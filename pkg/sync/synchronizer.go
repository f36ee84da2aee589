package sync

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/vistatrade/firesync/internal/database/models"
	"github.com/vistatrade/firesync/pkg/connectors/firestore"
	"github.com/vistatrade/firesync/pkg/logger"
)

// errMissingID marks a document with no usable identity
var errMissingID = errors.New("document has no id")

// ownerKeys are the aliases under which remote documents carry the
// owning user's identifier
var ownerKeys = []string{"userId", "uid", "user_id"}

// Synchronizer maps batches of remote documents into idempotent upserts
// against the relational tables. Each document is committed in its own
// transaction so one malformed document never aborts the batch and no
// record is ever half-written.
type Synchronizer struct {
	db     *gorm.DB
	log    *logger.Logger
	tracer trace.Tracer
}

// NewSynchronizer creates a synchronizer writing to db
func NewSynchronizer(db *gorm.DB, log *logger.Logger) *Synchronizer {
	if log == nil {
		log = logger.Nop()
	}
	return &Synchronizer{
		db:     db,
		log:    log,
		tracer: otel.Tracer("synchronizer"),
	}
}

// upsertFunc commits one document; reports whether a new row was created
type upsertFunc func(ctx context.Context, doc firestore.Document) (bool, error)

// run drives a batch through fn, isolating per-document failures
func (s *Synchronizer) run(ctx context.Context, entity string, docs []firestore.Document, fn upsertFunc) Stats {
	ctx, span := s.tracer.Start(ctx, "synchronizer.sync_"+entity)
	defer span.End()

	stats := Stats{Total: len(docs)}
	for _, doc := range docs {
		created, err := fn(ctx, doc)
		if err != nil {
			stats.Errors++
			s.log.WithError(err).WithFields(map[string]interface{}{
				"entity":      entity,
				"external_id": doc.ID(),
			}).Warn("failed to sync document")
			continue
		}
		if created {
			stats.Created++
		} else {
			stats.Updated++
		}
	}

	span.SetAttributes(
		attribute.String("sync.entity", entity),
		attribute.Int("sync.created", stats.Created),
		attribute.Int("sync.updated", stats.Updated),
		attribute.Int("sync.errors", stats.Errors),
	)

	return stats
}

// SyncPurchases upserts purchase documents
func (s *Synchronizer) SyncPurchases(ctx context.Context, docs []firestore.Document) Stats {
	return s.run(ctx, "purchases", docs, func(ctx context.Context, doc firestore.Document) (bool, error) {
		externalID := doc.ID()
		if externalID == "" {
			return false, errMissingID
		}

		created := false
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var rec models.Purchase
			if err := findByExternalID(tx, &rec, externalID, &created); err != nil {
				return err
			}
			rec.ExternalID = externalID
			rec.OwnerExternalID = doc.Text(ownerKeys...)
			rec.Amount = DecimalPtr(doc.Field("amount"))
			rec.Paid = DecimalPtr(doc.Field("paid"))
			rec.TotalAmount = DecimalPtr(doc.Field("total_amount", "totalAmount"))
			rec.PurchasedAt = TimePtr(doc.Field("purchase_date", "date", "created_at"))
			rec.Status = doc.Text("status")
			rec.ProductName = doc.Text("product_name", "productName")
			rec.Description = doc.Text("description")
			return tx.Save(&rec).Error
		})
		return created, err
	})
}

// SyncSignalPayments upserts premium signal payment documents
func (s *Synchronizer) SyncSignalPayments(ctx context.Context, docs []firestore.Document) Stats {
	return s.run(ctx, "signal_payments", docs, func(ctx context.Context, doc firestore.Document) (bool, error) {
		externalID := doc.ID()
		if externalID == "" {
			return false, errMissingID
		}

		created := false
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var rec models.SignalPayment
			if err := findByExternalID(tx, &rec, externalID, &created); err != nil {
				return err
			}
			rec.ExternalID = externalID
			rec.OwnerExternalID = doc.Text(ownerKeys...)
			rec.Amount = DecimalPtr(doc.Field("amount"))
			rec.Paid = DecimalPtr(doc.Field("paid"))
			rec.TotalAmount = DecimalPtr(doc.Field("total_amount", "totalAmount"))
			rec.Price = DecimalPtr(doc.Field("price"))
			rec.PaidAt = TimePtr(doc.Field("payment_date", "date", "created_at"))
			rec.Method = doc.Text("payment_method", "paymentMethod")
			rec.Status = doc.Text("status")
			rec.SignalType = doc.Text("signal_type", "signalType")
			rec.SubscriptionPeriod = doc.Text("subscription_period", "subscriptionPeriod")
			return tx.Save(&rec).Error
		})
		return created, err
	})
}

// SyncSignalNotifications upserts per-user signal notification documents
func (s *Synchronizer) SyncSignalNotifications(ctx context.Context, docs []firestore.Document) Stats {
	return s.run(ctx, "signal_notifications", docs, func(ctx context.Context, doc firestore.Document) (bool, error) {
		externalID := doc.ID()
		if externalID == "" {
			return false, errMissingID
		}

		created := false
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var rec models.SignalNotification
			if err := findByExternalID(tx, &rec, externalID, &created); err != nil {
				return err
			}
			rec.ExternalID = externalID
			rec.OwnerExternalID = doc.Text(ownerKeys...)
			rec.Title = doc.Text("title")
			rec.Message = doc.Text("message")
			rec.Kind = doc.Text("type", "notification_type")
			rec.SignalPayload = jsonColumn(doc.Field("signal_data", "signalData"))
			rec.Read = doc.Flag("read")
			rec.Priority = doc.Text("priority")
			rec.NotifiedAt = TimePtr(doc.Field("notification_date", "date", "created_at"))
			rec.ReadAt = TimePtr(doc.Field("read_at", "readAt"))
			return tx.Save(&rec).Error
		})
		return created, err
	})
}

// SyncCourseProgress upserts per-user course progress documents
func (s *Synchronizer) SyncCourseProgress(ctx context.Context, docs []firestore.Document) Stats {
	return s.run(ctx, "course_progress", docs, func(ctx context.Context, doc firestore.Document) (bool, error) {
		externalID := doc.ID()
		if externalID == "" {
			return false, errMissingID
		}

		created := false
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var rec models.CourseProgress
			if err := findByExternalID(tx, &rec, externalID, &created); err != nil {
				return err
			}

			// The completed count is derived from the completed-items list
			// when the remote field actually is a list; only then does the
			// explicit counter field act as fallback.
			completedCount := doc.Int("total_completed")
			if items, ok := doc.Items("completed_videos", "completedVideos"); ok {
				completedCount = len(items)
			}

			rec.ExternalID = externalID
			rec.OwnerExternalID = doc.Text(ownerKeys...)
			rec.CompletedItems = jsonColumn(doc.Field("completed_videos", "completedVideos"))
			rec.ItemDurations = jsonColumn(doc.Field("video_durations", "videoDurations"))
			rec.CompletedCount = completedCount
			rec.ProgressPercent = DecimalPtr(doc.Field("progress_percentage", "progressPercentage"))
			rec.LastActivityAt = TimePtr(doc.Field("last_activity", "lastActivity", "updated_at"))
			return tx.Save(&rec).Error
		})
		return created, err
	})
}

// SyncSignals upserts premium signal documents
func (s *Synchronizer) SyncSignals(ctx context.Context, docs []firestore.Document) Stats {
	return s.run(ctx, "signals", docs, func(ctx context.Context, doc firestore.Document) (bool, error) {
		externalID := doc.ID()
		if externalID == "" {
			return false, errMissingID
		}

		created := false
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var rec models.Signal
			if err := findByExternalID(tx, &rec, externalID, &created); err != nil {
				return err
			}
			rec.ExternalID = externalID
			rec.SignalType = doc.Text("type", "signal_type")
			rec.Symbol = doc.Text("symbol")
			rec.EntryPrice = DecimalPtr(doc.Field("entry_price", "entryPrice"))
			rec.StopLoss = DecimalPtr(doc.Field("stop_loss", "stopLoss"))
			rec.TakeProfit = DecimalPtr(doc.Field("take_profit", "takeProfit"))
			rec.Title = doc.Text("title")
			rec.Description = doc.Text("description")
			rec.Status = doc.Text("status")
			rec.SignaledAt = TimePtr(doc.Field("signal_date", "date", "created_at"))
			rec.ExpiresAt = TimePtr(doc.Field("expiry_date", "expiryDate"))
			return tx.Save(&rec).Error
		})
		return created, err
	})
}

// SyncSignalSubscriptions upserts signal subscription documents
func (s *Synchronizer) SyncSignalSubscriptions(ctx context.Context, docs []firestore.Document) Stats {
	return s.run(ctx, "signal_subscriptions", docs, func(ctx context.Context, doc firestore.Document) (bool, error) {
		externalID := doc.ID()
		if externalID == "" {
			return false, errMissingID
		}

		created := false
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var rec models.SignalSubscription
			if err := findByExternalID(tx, &rec, externalID, &created); err != nil {
				return err
			}
			rec.ExternalID = externalID
			rec.OwnerExternalID = doc.Text(ownerKeys...)
			rec.SubscriptionType = doc.Text("subscription_type", "subscriptionType")
			rec.Status = doc.Text("status")
			rec.StartsAt = TimePtr(doc.Field("start_date", "startDate"))
			rec.EndsAt = TimePtr(doc.Field("end_date", "endDate"))
			rec.AutoRenew = doc.Flag("auto_renew", "autoRenew")
			rec.Price = DecimalPtr(doc.Field("price"))
			return tx.Save(&rec).Error
		})
		return created, err
	})
}

// SyncCourses upserts course documents
func (s *Synchronizer) SyncCourses(ctx context.Context, docs []firestore.Document) Stats {
	return s.run(ctx, "courses", docs, func(ctx context.Context, doc firestore.Document) (bool, error) {
		externalID := doc.ID()
		if externalID == "" {
			return false, errMissingID
		}

		created := false
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var rec models.Course
			if err := findByExternalID(tx, &rec, externalID, &created); err != nil {
				return err
			}
			rec.ExternalID = externalID
			rec.Title = doc.Text("title")
			rec.Description = doc.Text("description")
			rec.Instructor = doc.Text("instructor")
			rec.Duration = doc.Text("duration")
			rec.Level = doc.Text("level")
			rec.Category = doc.Text("category")
			rec.ThumbnailURL = doc.Text("thumbnail_url", "thumbnailUrl")
			rec.VideoCount = doc.Int("video_count", "videoCount")
			rec.Price = DecimalPtr(doc.Field("price"))
			rec.Free = doc.Flag("is_free", "isFree")
			rec.Published = doc.FlagDefault(true, "is_published", "isPublished")
			return tx.Save(&rec).Error
		})
		return created, err
	})
}

// SyncDeviceTokens upserts push token documents
func (s *Synchronizer) SyncDeviceTokens(ctx context.Context, docs []firestore.Document) Stats {
	return s.run(ctx, "device_tokens", docs, func(ctx context.Context, doc firestore.Document) (bool, error) {
		externalID := doc.ID()
		if externalID == "" {
			return false, errMissingID
		}

		created := false
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var rec models.DeviceToken
			if err := findByExternalID(tx, &rec, externalID, &created); err != nil {
				return err
			}

			// Older token documents carry the token only as the document id
			token := doc.Text("token")
			if token == "" {
				token = externalID
			}

			rec.ExternalID = externalID
			rec.OwnerExternalID = doc.Text(ownerKeys...)
			rec.Token = token
			rec.Platform = doc.Text("platform")
			rec.DeviceInfo = doc.Text("device_info", "deviceInfo")
			rec.Active = doc.FlagDefault(true, "is_active", "isActive")
			rec.LastUsedAt = TimePtr(doc.Field("last_used", "lastUsed", "updated_at"))
			return tx.Save(&rec).Error
		})
		return created, err
	})
}

// SyncAnnouncements upserts application-wide notification documents
func (s *Synchronizer) SyncAnnouncements(ctx context.Context, docs []firestore.Document) Stats {
	return s.run(ctx, "announcements", docs, func(ctx context.Context, doc firestore.Document) (bool, error) {
		externalID := doc.ID()
		if externalID == "" {
			return false, errMissingID
		}

		created := false
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var rec models.Announcement
			if err := findByExternalID(tx, &rec, externalID, &created); err != nil {
				return err
			}
			rec.ExternalID = externalID
			rec.Title = doc.Text("title")
			rec.Message = doc.Text("message")
			rec.Kind = doc.Text("type", "notification_type")
			rec.TargetAudience = doc.Text("target_audience", "targetAudience")
			rec.Priority = doc.Text("priority")
			rec.ScheduledAt = TimePtr(doc.Field("scheduled_date", "scheduledDate"))
			rec.SentAt = TimePtr(doc.Field("sent_date", "sentDate"))
			rec.Sent = doc.Flag("is_sent", "isSent")
			return tx.Save(&rec).Error
		})
		return created, err
	})
}

// SyncTestimonials upserts testimonial documents
func (s *Synchronizer) SyncTestimonials(ctx context.Context, docs []firestore.Document) Stats {
	return s.run(ctx, "testimonials", docs, func(ctx context.Context, doc firestore.Document) (bool, error) {
		externalID := doc.ID()
		if externalID == "" {
			return false, errMissingID
		}

		created := false
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var rec models.Testimonial
			if err := findByExternalID(tx, &rec, externalID, &created); err != nil {
				return err
			}
			rec.ExternalID = externalID
			rec.OwnerExternalID = doc.Text(ownerKeys...)
			rec.AuthorName = doc.Text("author_name", "authorName")
			rec.AuthorEmail = doc.Text("author_email", "authorEmail")
			rec.AuthorAvatar = doc.Text("author_avatar", "authorAvatar")
			rec.Content = doc.Text("content")
			rec.Rating = doc.Int("rating")
			rec.Approved = doc.Flag("is_approved", "isApproved")
			rec.Featured = doc.Flag("is_featured", "isFeatured")
			return tx.Save(&rec).Error
		})
		return created, err
	})
}

// SyncAccounts upserts remote user account documents
func (s *Synchronizer) SyncAccounts(ctx context.Context, docs []firestore.Document) Stats {
	return s.run(ctx, "remote_accounts", docs, func(ctx context.Context, doc firestore.Document) (bool, error) {
		// Account documents occasionally carry their identity only in
		// the uid field
		externalID := doc.ID()
		if externalID == "" {
			externalID = doc.Text("uid")
		}
		if externalID == "" {
			return false, errMissingID
		}

		created := false
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var rec models.RemoteAccount
			if err := findByExternalID(tx, &rec, externalID, &created); err != nil {
				return err
			}
			rec.ExternalID = externalID
			rec.Email = doc.Text("email")
			rec.DisplayName = doc.Text("display_name", "displayName")
			rec.PhoneNumber = doc.Text("phone_number", "phoneNumber")
			rec.PhotoURL = doc.Text("photo_url", "photoUrl")
			rec.Premium = doc.Flag("is_premium", "isPremium")
			rec.Active = doc.FlagDefault(true, "is_active", "isActive")
			rec.LastLoginAt = TimePtr(doc.Field("last_login", "lastLogin", "lastSignIn"))
			rec.RegisteredAt = TimePtr(doc.Field("account_created", "accountCreated", "created_at"))
			return tx.Save(&rec).Error
		})
		return created, err
	})
}

// findByExternalID loads the existing row for externalID into rec, or
// flags creation when none exists. Any error other than not-found
// propagates so the surrounding transaction rolls back.
func findByExternalID(tx *gorm.DB, rec interface{}, externalID string, created *bool) error {
	err := tx.Where("external_id = ?", externalID).First(rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		*created = true
		return nil
	}
	return err
}
