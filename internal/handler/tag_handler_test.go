package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"alertdesk_go/internal/model"
	"alertdesk_go/internal/service"

	"github.com/gin-gonic/gin"
)

type fakeTagService struct {
	createTagFn        func(name, topic string) (*model.Tag, error)
	listTagsFn         func() ([]model.Tag, error)
	listRelationsFn    func(contentType string, objectID uint) ([]model.TagRelation, error)
	createDataTaggerFn func(tagger *model.DataTagger) (*model.DataTagger, error)
}

func (f *fakeTagService) CreateTag(ctx context.Context, name, topic string) (*model.Tag, error) {
	if f.createTagFn != nil {
		return f.createTagFn(name, topic)
	}
	return &model.Tag{Name: name, Topic: topic}, nil
}

func (f *fakeTagService) ListTags(ctx context.Context) ([]model.Tag, error) {
	if f.listTagsFn != nil {
		return f.listTagsFn()
	}
	return []model.Tag{}, nil
}

func (f *fakeTagService) ListRelations(ctx context.Context, contentType string, objectID uint) ([]model.TagRelation, error) {
	if f.listRelationsFn != nil {
		return f.listRelationsFn(contentType, objectID)
	}
	return []model.TagRelation{}, nil
}

func (f *fakeTagService) CreateDataTagger(ctx context.Context, tagger *model.DataTagger) (*model.DataTagger, error) {
	if f.createDataTaggerFn != nil {
		return f.createDataTaggerFn(tagger)
	}
	return tagger, nil
}

func (f *fakeTagService) ListDataTaggers(ctx context.Context) ([]model.DataTagger, error) {
	return []model.DataTagger{}, nil
}

type fakeFeatureFlags struct {
	emails bool
	setErr error
}

func (f *fakeFeatureFlags) EmailsEnabled(ctx context.Context) bool { return f.emails }

func (f *fakeFeatureFlags) SetEmailsEnabled(ctx context.Context, enabled bool) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.emails = enabled
	return nil
}

func newTagRouter(svc service.TagService, flags service.FeatureFlags) *gin.Engine {
	h := NewTagHandler(svc, flags)
	r := gin.New()
	r.GET("/tags", h.ListTags)
	r.POST("/tags", h.CreateTag)
	r.GET("/tag-relations", h.ListRelations)
	r.GET("/datataggers", h.ListDataTaggers)
	r.POST("/datataggers", h.CreateDataTagger)
	r.PUT("/features/emails", h.SetEmailNotifications)
	return r
}

func TestCreateTag_Conflict(t *testing.T) {
	svc := &fakeTagService{
		createTagFn: func(name, topic string) (*model.Tag, error) {
			return nil, service.ErrTagAlreadyExists
		},
	}
	r := newTagRouter(svc, &fakeFeatureFlags{})

	w := doReq(r, http.MethodPost, "/tags", `{"name":"cat","topic":"animals"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expect 409, got %d, body=%s", w.Code, w.Body.String())
	}
}

func TestListRelations(t *testing.T) {
	var gotType string
	var gotID uint
	svc := &fakeTagService{
		listRelationsFn: func(contentType string, objectID uint) ([]model.TagRelation, error) {
			gotType, gotID = contentType, objectID
			return []model.TagRelation{{ID: 1, TagID: 2, ContentType: contentType, ObjectID: objectID}}, nil
		},
	}
	r := newTagRouter(svc, &fakeFeatureFlags{})

	w := doReq(r, http.MethodGet, "/tag-relations?contentType=comment&objectId=12", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expect 200, got %d, body=%s", w.Code, w.Body.String())
	}
	if gotType != model.ContentTypeComment || gotID != 12 {
		t.Fatalf("unexpected query: %s %d", gotType, gotID)
	}

	w = doReq(r, http.MethodGet, "/tag-relations?contentType=comment", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expect 400 without objectId, got %d", w.Code)
	}
}

func TestCreateDataTagger(t *testing.T) {
	var got *model.DataTagger
	svc := &fakeTagService{
		createDataTaggerFn: func(tagger *model.DataTagger) (*model.DataTagger, error) {
			got = tagger
			tagger.ID = 1
			return tagger, nil
		},
	}
	r := newTagRouter(svc, &fakeFeatureFlags{})

	w := doReq(r, http.MethodPost, "/datataggers", `{"fieldName":"host.name","topic":"hosts","exactMatch":true,"createTags":true}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expect 201, got %d, body=%s", w.Code, w.Body.String())
	}
	if got == nil || got.FieldName != "host.name" || !got.ExactMatch || !got.CreateTags {
		t.Fatalf("unexpected tagger: %+v", got)
	}
}

func TestSetEmailNotifications(t *testing.T) {
	flags := &fakeFeatureFlags{}
	r := newTagRouter(&fakeTagService{}, flags)

	w := doReq(r, http.MethodPut, "/features/emails", `{"enabled":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expect 200, got %d, body=%s", w.Code, w.Body.String())
	}
	if !flags.emails {
		t.Fatal("expect emails to be enabled")
	}
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if data := resp["data"].(map[string]any); data["emailsEnabled"] != true {
		t.Fatalf("unexpected data: %v", data)
	}

	// enabled 必填，false 也要显式给出
	w = doReq(r, http.MethodPut, "/features/emails", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expect 400, got %d", w.Code)
	}
}

func TestSetEmailNotifications_NoStore(t *testing.T) {
	r := newTagRouter(&fakeTagService{}, &fakeFeatureFlags{setErr: service.ErrFeatureStoreUnavailable})

	w := doReq(r, http.MethodPut, "/features/emails", `{"enabled":false}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expect 503, got %d, body=%s", w.Code, w.Body.String())
	}
}
