package sync

import (
	"context"
	"fmt"

	"resume-sync/internal/domain/achievement"
	"resume-sync/internal/repository"
	"resume-sync/internal/ws"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Counts struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
}

// Reconciler runs one fetch-diff-apply pass: repositories present remotely
// but not locally are created (and fanned out to every resume), matches get
// their stats refreshed in place, and local records whose repository is gone
// are deleted and pulled from every resume.
type Reconciler struct {
	repos    RepoLister
	projects repository.ProjectRepository
	resumes  repository.ResumeRepository
	log      *logrus.Logger
}

func NewReconciler(repos RepoLister, projects repository.ProjectRepository, resumes repository.ResumeRepository, log *logrus.Logger) *Reconciler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Reconciler{repos: repos, projects: projects, resumes: resumes, log: log}
}

func (r *Reconciler) Run(ctx context.Context, userID uuid.UUID, handle string) (Counts, error) {
	var counts Counts

	external, err := r.repos.ListRepos(ctx, handle)
	if err != nil {
		return counts, errors.Wrap(err, "fetch external repositories")
	}

	local, err := r.projects.ListSynced(ctx, userID)
	if err != nil {
		return counts, errors.Wrap(err, "list local projects")
	}

	localByURL := make(map[string]achievement.Project, len(local))
	for _, p := range local {
		localByURL[p.RepoURL] = p
	}

	// Fork URLs stay in this set so a pre-existing local record pointing at a
	// fork is never treated as stale; forks are otherwise untouched.
	externalURLs := make(map[string]struct{}, len(external))
	for _, repo := range external {
		externalURLs[repo.HTMLURL] = struct{}{}
	}

	for _, repo := range external {
		if repo.Fork {
			continue
		}

		if existing, ok := localByURL[repo.HTMLURL]; ok {
			if err := r.projects.UpdateSyncStats(ctx, existing.ID, statsSnapshot(repo), &repo.UpdatedAt); err != nil {
				r.log.WithError(err).WithFields(logrus.Fields{"user_id": userID, "repo": repo.HTMLURL}).Error("update project stats")
				continue
			}
			counts.Updated++
			continue
		}

		if err := r.createAndAttach(ctx, userID, repo); err != nil {
			r.log.WithError(err).WithFields(logrus.Fields{"user_id": userID, "repo": repo.HTMLURL}).Error("create project")
			continue
		}
		counts.Created++
	}

	for _, p := range local {
		if _, ok := externalURLs[p.RepoURL]; ok {
			continue
		}
		if _, err := r.resumes.DetachItemFromAll(ctx, userID, achievement.KindProject, p.ID); err != nil {
			r.log.WithError(err).WithFields(logrus.Fields{"user_id": userID, "project_id": p.ID}).Error("detach stale project")
			continue
		}
		if err := r.projects.Delete(ctx, p.ID); err != nil {
			r.log.WithError(err).WithFields(logrus.Fields{"user_id": userID, "project_id": p.ID}).Error("delete stale project")
			continue
		}
		counts.Deleted++
		r.log.WithFields(logrus.Fields{"user_id": userID, "title": p.Title}).Info("repository gone upstream, project removed")
	}

	if counts.Created > 0 || counts.Updated > 0 || counts.Deleted > 0 {
		r.log.WithFields(logrus.Fields{
			"user_id": userID,
			"handle":  handle,
			"created": counts.Created,
			"updated": counts.Updated,
			"deleted": counts.Deleted,
		}).Info("sync pass applied")
		ws.NotifySyncCompleted(userID, counts.Created, counts.Updated, counts.Deleted)
	}

	return counts, nil
}

func (r *Reconciler) createAndAttach(ctx context.Context, userID uuid.UUID, repo RemoteRepo) error {
	shortDesc := repo.Description
	if shortDesc == "" {
		shortDesc = "GitHub repository: " + repo.Name
	}
	techStack := []string{}
	if repo.Language != "" {
		techStack = []string{repo.Language}
	}
	start := repo.CreatedAt
	end := repo.UpdatedAt

	created, err := r.projects.Create(ctx, achievement.Project{
		ID:               uuid.New(),
		UserID:           userID,
		Title:            repo.Name,
		ShortDescription: shortDesc,
		Description:      repo.Description,
		TechStack:        techStack,
		Contributions:    statsSnapshot(repo),
		RepoURL:          repo.HTMLURL,
		LiveURL:          repo.Homepage,
		StartDate:        &start,
		EndDate:          &end,
		Visibility:       "public",
	})
	if err != nil {
		// A concurrent pass or webhook won the insert race; converge on the
		// surviving row instead of failing the pass.
		if errors.Is(err, repository.ErrProjectExists) {
			created, err = r.projects.FindByRepoURL(ctx, userID, repo.HTMLURL)
			if err != nil {
				return err
			}
		} else {
			return err
		}
	}

	if _, err := r.resumes.AttachItemToAll(ctx, userID, achievement.KindProject, created.ID); err != nil {
		return errors.Wrap(err, "attach project to resumes")
	}

	ws.NotifyItemAdded(userID, string(achievement.KindProject), created.Title)
	return nil
}

func statsSnapshot(repo RemoteRepo) []string {
	return []string{
		fmt.Sprintf("%d stars", repo.Stars),
		fmt.Sprintf("%d forks", repo.Forks),
		fmt.Sprintf("%d issues", repo.OpenIssues),
	}
}
