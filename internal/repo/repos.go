package repo

import "github.com/xxxsen/trailmark/internal/pkg/dbutil"

// Repos groups every repository over one executor so a unit of work can run
// against a pool or a single transaction with the same code.
type Repos struct {
	Users         *UserRepo
	Markers       *MarkerRepo
	Tags          *TagRepo
	MarkerTags    *MarkerTagRepo
	Serials       *SerialRepo
	SerialMembers *SerialMemberRepo
	Photos        *PhotoRepo
	PhotoGC       *PhotoGCRepo
}

func New(db *dbutil.Executor) *Repos {
	return &Repos{
		Users:         NewUserRepo(db),
		Markers:       NewMarkerRepo(db),
		Tags:          NewTagRepo(db),
		MarkerTags:    NewMarkerTagRepo(db),
		Serials:       NewSerialRepo(db),
		SerialMembers: NewSerialMemberRepo(db),
		Photos:        NewPhotoRepo(db),
		PhotoGC:       NewPhotoGCRepo(db),
	}
}

func toArgs(values []string) []interface{} {
	args := make([]interface{}, 0, len(values))
	for _, v := range values {
		args = append(args, v)
	}
	return args
}
