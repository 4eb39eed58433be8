package service

import (
	"context"
	"sort"

	"github.com/BLUETOID/RIMAP/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes backing the service tests.

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
	roles map[string]*model.Role

	updateErr error // when set, Update fails with it
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users: make(map[uuid.UUID]*model.User),
		roles: map[string]*model.Role{
			"admin":   {ID: 1, Name: "admin"},
			"alumni":  {ID: 2, Name: "alumni"},
			"student": {ID: 3, Name: "student"},
		},
	}
}

func (r *fakeUserRepo) addUser(user *model.User) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copied := *user
	r.users[user.ID] = &copied
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User, profile *model.Profile) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copied := *user
	copied.Profile = profile
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	user, ok := r.users[uid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindRoleByName(ctx context.Context, name string) (*model.Role, error) {
	role, ok := r.roles[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return role, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, profile *model.Profile) error {
	user, ok := r.users[profile.UserID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *profile
	user.Profile = &copied
	return nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context) ([]*model.User, error) {
	all := make([]*model.User, 0, len(r.users))
	for _, user := range r.users {
		copied := *user
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID.String() < all[j].ID.String() })
	return all, nil
}

func (r *fakeUserRepo) FindByRole(ctx context.Context, roleName string) ([]*model.User, error) {
	var matched []*model.User
	for _, user := range r.users {
		if user.Role.Name == roleName {
			copied := *user
			matched = append(matched, &copied)
		}
	}
	return matched, nil
}

func (r *fakeUserRepo) FindUnverified(ctx context.Context) ([]*model.User, error) {
	var matched []*model.User
	for _, user := range r.users {
		if !user.IsVerified {
			copied := *user
			matched = append(matched, &copied)
		}
	}
	return matched, nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return gorm.ErrRecordNotFound
	}
	delete(r.users, uid)
	return nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

type userChallengeKey struct {
	userID      uuid.UUID
	challengeID string
}

type fakeGamificationRepo struct {
	transactions []model.PointTransaction
	achievements []model.Achievement
	unlocked     map[uuid.UUID][]model.UserAchievement
	challenges   map[string]*model.Challenge
	participants []model.ChallengeParticipant
	joined       map[userChallengeKey]*model.UserChallenge
}

func newFakeGamificationRepo() *fakeGamificationRepo {
	return &fakeGamificationRepo{
		unlocked:   make(map[uuid.UUID][]model.UserAchievement),
		challenges: make(map[string]*model.Challenge),
		joined:     make(map[userChallengeKey]*model.UserChallenge),
	}
}

func (r *fakeGamificationRepo) CreateTransaction(ctx context.Context, txn *model.PointTransaction) error {
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	r.transactions = append(r.transactions, *txn)
	return nil
}

func (r *fakeGamificationRepo) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.PointTransaction, error) {
	var txns []model.PointTransaction
	for _, txn := range r.transactions {
		if txn.UserID == userID {
			txns = append(txns, txn)
		}
	}
	if offset >= len(txns) {
		return nil, nil
	}
	txns = txns[offset:]
	if limit > 0 && limit < len(txns) {
		txns = txns[:limit]
	}
	return txns, nil
}

func (r *fakeGamificationRepo) CountTransactionsByAction(ctx context.Context, userID uuid.UUID, action string) (int64, error) {
	var count int64
	for _, txn := range r.transactions {
		if txn.UserID == userID && txn.Action == action {
			count++
		}
	}
	return count, nil
}

func (r *fakeGamificationRepo) SumTransactions(ctx context.Context, userID uuid.UUID) (int64, error) {
	var sum int64
	for _, txn := range r.transactions {
		if txn.UserID == userID {
			sum += int64(txn.Points)
		}
	}
	return sum, nil
}

func (r *fakeGamificationRepo) ListAchievements(ctx context.Context) ([]model.Achievement, error) {
	out := make([]model.Achievement, len(r.achievements))
	copy(out, r.achievements)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeGamificationRepo) FindAchievement(ctx context.Context, id string) (*model.Achievement, error) {
	for i := range r.achievements {
		if r.achievements[i].ID == id {
			copied := r.achievements[i]
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeGamificationRepo) ListUserAchievements(ctx context.Context, userID uuid.UUID) ([]model.UserAchievement, error) {
	out := make([]model.UserAchievement, len(r.unlocked[userID]))
	copy(out, r.unlocked[userID])
	return out, nil
}

func (r *fakeGamificationRepo) FindUserAchievement(ctx context.Context, userID uuid.UUID, achievementID string) (*model.UserAchievement, error) {
	for _, ua := range r.unlocked[userID] {
		if ua.AchievementID == achievementID {
			copied := ua
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeGamificationRepo) CreateUserAchievement(ctx context.Context, ua *model.UserAchievement) error {
	r.unlocked[ua.UserID] = append(r.unlocked[ua.UserID], *ua)
	return nil
}

func (r *fakeGamificationRepo) CountAchievements(ctx context.Context) (int64, error) {
	return int64(len(r.achievements)), nil
}

func (r *fakeGamificationRepo) ListChallenges(ctx context.Context) ([]model.Challenge, error) {
	var out []model.Challenge
	for _, challenge := range r.challenges {
		out = append(out, *challenge)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeGamificationRepo) FindChallenge(ctx context.Context, id string) (*model.Challenge, error) {
	challenge, ok := r.challenges[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *challenge
	return &copied, nil
}

func (r *fakeGamificationRepo) AddParticipant(ctx context.Context, p *model.ChallengeParticipant) error {
	r.participants = append(r.participants, *p)
	return nil
}

func (r *fakeGamificationRepo) FindUserChallenge(ctx context.Context, userID uuid.UUID, challengeID string) (*model.UserChallenge, error) {
	uc, ok := r.joined[userChallengeKey{userID, challengeID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *uc
	return &copied, nil
}

func (r *fakeGamificationRepo) ListUserChallenges(ctx context.Context, userID uuid.UUID) ([]model.UserChallenge, error) {
	var out []model.UserChallenge
	for key, uc := range r.joined {
		if key.userID == userID {
			out = append(out, *uc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChallengeID < out[j].ChallengeID })
	return out, nil
}

func (r *fakeGamificationRepo) CreateUserChallenge(ctx context.Context, uc *model.UserChallenge) error {
	copied := *uc
	r.joined[userChallengeKey{uc.UserID, uc.ChallengeID}] = &copied
	return nil
}

func (r *fakeGamificationRepo) SaveUserChallenge(ctx context.Context, uc *model.UserChallenge) error {
	copied := *uc
	r.joined[userChallengeKey{uc.UserID, uc.ChallengeID}] = &copied
	return nil
}

// fakeNotifier records every notification instead of touching redis.
type fakeNotifier struct {
	sent []model.Notification
}

func (n *fakeNotifier) CreateNotification(ctx context.Context, notification *model.Notification) error {
	n.sent = append(n.sent, *notification)
	return nil
}

func (n *fakeNotifier) GetNotifications(userID uuid.UUID, limit, offset int) ([]model.Notification, error) {
	var out []model.Notification
	for _, notification := range n.sent {
		if notification.UserID == userID {
			out = append(out, notification)
		}
	}
	return out, nil
}

func (n *fakeNotifier) MarkAsRead(id uuid.UUID) error        { return nil }
func (n *fakeNotifier) MarkAllAsRead(userID uuid.UUID) error { return nil }
func (n *fakeNotifier) UnreadCount(userID uuid.UUID) (int64, error) {
	return int64(len(n.sent)), nil
}

func (n *fakeNotifier) countByType(notificationType string) int {
	count := 0
	for _, notification := range n.sent {
		if notification.Type == notificationType {
			count++
		}
	}
	return count
}
