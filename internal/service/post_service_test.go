package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"miniblog/internal/dto"
	"miniblog/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// ============================================================================
// Mock 定义
// ============================================================================

// MockPostRepository 模拟 PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint64) (*model.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostRepository) GetWithAuthor(ctx context.Context, id uint64) (*model.PostWithAuthor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PostWithAuthor), args.Error(1)
}

func (m *MockPostRepository) ListWithAuthor(ctx context.Context) ([]*model.PostWithAuthor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PostWithAuthor), args.Error(1)
}

func (m *MockPostRepository) Create(ctx context.Context, post *model.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Update(ctx context.Context, id uint64, title, content string) error {
	args := m.Called(ctx, id, title, content)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) BatchCreate(ctx context.Context, posts []*model.Post) error {
	args := m.Called(ctx, posts)
	return args.Error(0)
}

// ============================================================================
// 测试辅助函数
// ============================================================================

func setupTestPostService() (*postService, *MockPostRepository) {
	mockRepo := new(MockPostRepository)
	service := &postService{postRepo: mockRepo}
	return service, mockRepo
}

// ============================================================================
// List 测试
// ============================================================================

func TestPostList_Success(t *testing.T) {
	service, mockRepo := setupTestPostService()
	ctx := context.Background()

	now := time.Now()
	posts := []*model.PostWithAuthor{
		{
			Post:        model.Post{ID: 2, Title: "第二篇", UserID: 10, CreatedAt: now},
			AuthorName:  "alice",
			AuthorImage: "default.jpg",
		},
		{
			Post:        model.Post{ID: 1, Title: "第一篇", UserID: 10, CreatedAt: now.Add(-time.Hour)},
			AuthorName:  "alice",
			AuthorImage: "default.jpg",
		},
	}

	// 设置 Mock 期望（仓储已按创建时间倒序返回）
	mockRepo.On("ListWithAuthor", ctx).Return(posts, nil)

	// 执行测试
	result, err := service.List(ctx)

	// 断言
	assert.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, "第二篇", result[0].Title)
	assert.Equal(t, "alice", result[0].AuthorName)

	mockRepo.AssertExpectations(t)
}

// ============================================================================
// Get 测试
// ============================================================================

func TestPostGet_Success(t *testing.T) {
	service, mockRepo := setupTestPostService()
	ctx := context.Background()

	post := &model.PostWithAuthor{
		Post:       model.Post{ID: 1, Title: "标题", Content: "内容", UserID: 10},
		AuthorName: "alice",
	}

	mockRepo.On("GetWithAuthor", ctx, uint64(1)).Return(post, nil)

	// 执行测试
	result, err := service.Get(ctx, 1)

	// 断言
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), result.ID)
	assert.Equal(t, uint64(10), result.AuthorID)

	mockRepo.AssertExpectations(t)
}

func TestPostGet_NotFound(t *testing.T) {
	service, mockRepo := setupTestPostService()
	ctx := context.Background()

	mockRepo.On("GetWithAuthor", ctx, uint64(999)).Return(nil, nil)

	// 执行测试
	result, err := service.Get(ctx, 999)

	// 断言
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, ErrPostNotFound, err)

	mockRepo.AssertExpectations(t)
}

// ============================================================================
// Create 测试
// ============================================================================

func TestPostCreate_Success(t *testing.T) {
	service, mockRepo := setupTestPostService()
	ctx := context.Background()

	createDTO := &dto.CreatePostDTO{
		AuthorID: 10,
		Title:    "新文章",
		Content:  "文章内容",
	}

	var created *model.Post
	mockRepo.On("Create", ctx, mock.AnythingOfType("*model.Post")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.Post)
		}).Return(nil)

	// 执行测试
	result, err := service.Create(ctx, createDTO)

	// 断言：作者取自DTO的AuthorID，ID已生成
	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, uint64(10), created.UserID)
	assert.NotZero(t, created.ID)

	mockRepo.AssertExpectations(t)
}

func TestPostCreate_EmptyTitle(t *testing.T) {
	service, mockRepo := setupTestPostService()
	ctx := context.Background()

	createDTO := &dto.CreatePostDTO{
		AuthorID: 10,
		Title:    "",
		Content:  "内容",
	}

	// 执行测试（验证失败，不应落库）
	result, err := service.Create(ctx, createDTO)

	// 断言
	assert.Error(t, err)
	assert.Nil(t, result)

	var verrs dto.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ByField(), "title")

	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// ============================================================================
// Update 测试
// ============================================================================

func TestPostUpdate_Success(t *testing.T) {
	service, mockRepo := setupTestPostService()
	ctx := context.Background()

	existing := &model.Post{ID: 1, Title: "旧标题", Content: "旧内容", UserID: 10}

	updateDTO := &dto.UpdatePostDTO{
		PostID:  1,
		ActorID: 10,
		Title:   "新标题",
		Content: "新内容",
	}

	// 设置 Mock 期望
	mockRepo.On("GetByID", ctx, uint64(1)).Return(existing, nil)
	mockRepo.On("Update", ctx, uint64(1), "新标题", "新内容").Return(nil)

	// 执行测试
	err := service.Update(ctx, updateDTO)

	// 断言
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestPostUpdate_NotOwner(t *testing.T) {
	service, mockRepo := setupTestPostService()
	ctx := context.Background()

	// 文章属于用户10，用户20尝试更新
	existing := &model.Post{ID: 1, Title: "旧标题", Content: "旧内容", UserID: 10}

	updateDTO := &dto.UpdatePostDTO{
		PostID:  1,
		ActorID: 20,
		Title:   "恶意标题",
		Content: "恶意内容",
	}

	mockRepo.On("GetByID", ctx, uint64(1)).Return(existing, nil)

	// 执行测试
	err := service.Update(ctx, updateDTO)

	// 断言：非作者返回403语义错误，文章不应被修改
	assert.Error(t, err)
	assert.Equal(t, ErrNotPostOwner, err)

	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestPostUpdate_NotFound(t *testing.T) {
	service, mockRepo := setupTestPostService()
	ctx := context.Background()

	updateDTO := &dto.UpdatePostDTO{
		PostID:  999,
		ActorID: 10,
		Title:   "标题",
		Content: "内容",
	}

	mockRepo.On("GetByID", ctx, uint64(999)).Return(nil, nil)

	// 执行测试
	err := service.Update(ctx, updateDTO)

	// 断言
	assert.Error(t, err)
	assert.Equal(t, ErrPostNotFound, err)

	mockRepo.AssertExpectations(t)
}

// ============================================================================
// Delete 测试
// ============================================================================

func TestPostDelete_Success(t *testing.T) {
	service, mockRepo := setupTestPostService()
	ctx := context.Background()

	existing := &model.Post{ID: 1, UserID: 10}

	deleteDTO := &dto.DeletePostDTO{
		PostID:  1,
		ActorID: 10,
	}

	mockRepo.On("GetByID", ctx, uint64(1)).Return(existing, nil)
	mockRepo.On("Delete", ctx, uint64(1)).Return(nil)

	// 执行测试
	err := service.Delete(ctx, deleteDTO)

	// 断言
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestPostDelete_NotOwner(t *testing.T) {
	service, mockRepo := setupTestPostService()
	ctx := context.Background()

	existing := &model.Post{ID: 1, UserID: 10}

	deleteDTO := &dto.DeletePostDTO{
		PostID:  1,
		ActorID: 20,
	}

	mockRepo.On("GetByID", ctx, uint64(1)).Return(existing, nil)

	// 执行测试
	err := service.Delete(ctx, deleteDTO)

	// 断言：非作者不能删除
	assert.Error(t, err)
	assert.Equal(t, ErrNotPostOwner, err)

	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestPostDelete_NotFound(t *testing.T) {
	service, mockRepo := setupTestPostService()
	ctx := context.Background()

	deleteDTO := &dto.DeletePostDTO{
		PostID:  999,
		ActorID: 10,
	}

	mockRepo.On("GetByID", ctx, uint64(999)).Return(nil, nil)

	// 执行测试
	err := service.Delete(ctx, deleteDTO)

	// 断言：删除不存在的文章返回未找到，而不是成功
	assert.Error(t, err)
	assert.Equal(t, ErrPostNotFound, err)

	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}
