package memory

import (
	"time"

	"github.com/oksasatya/devconnector-api/internal/domain/entity"
)

func cloneProfile(p entity.Profile) entity.Profile {
	out := p
	out.Skills = append([]string{}, p.Skills...)
	if p.Social != nil {
		out.Social = make(map[string]string, len(p.Social))
		for k, v := range p.Social {
			out.Social[k] = v
		}
	}
	out.Experience = make([]entity.Experience, len(p.Experience))
	for i, e := range p.Experience {
		e.To = cloneTime(e.To)
		out.Experience[i] = e
	}
	out.Education = make([]entity.Education, len(p.Education))
	for i, e := range p.Education {
		e.To = cloneTime(e.To)
		out.Education[i] = e
	}
	return out
}

func clonePost(p entity.Post) entity.Post {
	out := p
	out.Likes = append([]entity.Like{}, p.Likes...)
	out.Comments = append([]entity.Comment{}, p.Comments...)
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
