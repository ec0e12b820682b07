package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/evcraddock/rentapp/internal/catalog"
	"github.com/evcraddock/rentapp/internal/property"
)

func newPropertyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "property",
		Short: "Create, edit and browse listings",
	}

	cmd.AddCommand(
		newPropertyCreateCmd(),
		newPropertyUpdateCmd(),
		newPropertyShowCmd(),
		newPropertyListCmd(),
		newPropertyAllCmd(),
		newPropertyDeleteCmd(),
	)

	return cmd
}

// propertyFlags are the editable listing fields.
type propertyFlags struct {
	id          string
	title       string
	description string
	price       int64
	rooms       int64
	area        float64
	city        string
	district    string
	address     string
	images      []string
	status      string
}

func (f *propertyFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.title, "title", "", "listing title")
	fs.StringVar(&f.description, "description", "", "listing description")
	fs.Int64Var(&f.price, "price", 0, "monthly price")
	fs.Int64Var(&f.rooms, "rooms", 0, "number of rooms")
	fs.Float64Var(&f.area, "area", 0, "area in square meters")
	fs.StringVar(&f.city, "city", "", "city")
	fs.StringVar(&f.district, "district", "", "district")
	fs.StringVar(&f.address, "address", "", "street address")
	fs.StringSliceVar(&f.images, "image", nil, "image URL (repeatable)")
	fs.StringVar(&f.status, "status", "", "listing status (available|occupied)")
}

func (f *propertyFlags) listingStatus() (property.ListingStatus, error) {
	if !property.ValidListingStatus(f.status) {
		return "", fmt.Errorf("invalid listing status %q (want available or occupied)", f.status)
	}
	return property.ListingStatus(f.status), nil
}

// record builds a new record from every flag.
func (f *propertyFlags) record(fs *pflag.FlagSet) (*property.Record, error) {
	rec := &property.Record{
		ID:          f.id,
		Title:       f.title,
		Description: f.description,
		Location:    property.Location{City: f.city, District: f.district, Address: f.address},
		Images:      f.images,
	}
	if fs.Changed("price") {
		rec.Price = &f.price
	}
	if fs.Changed("rooms") {
		rec.Rooms = &f.rooms
	}
	if fs.Changed("area") {
		rec.Area = &f.area
	}
	if fs.Changed("status") {
		st, err := f.listingStatus()
		if err != nil {
			return nil, err
		}
		rec.Status = st
	}
	return rec, nil
}

// patch builds a patch from the flags that were set.
func (f *propertyFlags) patch(fs *pflag.FlagSet, current *property.Record) (property.Patch, error) {
	var p property.Patch
	if fs.Changed("title") {
		p.Title = &f.title
	}
	if fs.Changed("description") {
		p.Description = &f.description
	}
	if fs.Changed("price") {
		p.Price = &f.price
	}
	if fs.Changed("rooms") {
		p.Rooms = &f.rooms
	}
	if fs.Changed("area") {
		p.Area = &f.area
	}
	if fs.Changed("city") || fs.Changed("district") || fs.Changed("address") {
		loc := current.Location
		if fs.Changed("city") {
			loc.City = f.city
		}
		if fs.Changed("district") {
			loc.District = f.district
		}
		if fs.Changed("address") {
			loc.Address = f.address
		}
		p.Location = &loc
	}
	if fs.Changed("image") {
		p.Images = f.images
	}
	if fs.Changed("status") {
		st, err := f.listingStatus()
		if err != nil {
			return property.Patch{}, err
		}
		p.Status = &st
	}
	return p, nil
}

func newPropertyCreateCmd() *cobra.Command {
	var f propertyFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a listing owned by the acting user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.title == "" {
				return fmt.Errorf("--title is required")
			}
			rec, err := f.record(cmd.Flags())
			if err != nil {
				return err
			}
			rec.OwnerID = identity().UserID

			tab, release, err := openTab(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			created, err := tab.Properties.Create(rec)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, created)
			}
			fmt.Fprintf(out, "Property %s created.\n", created.ID)
			return nil
		},
	}

	f.register(cmd.Flags())
	cmd.Flags().StringVar(&f.id, "id", "", "explicit id (default: generated)")

	return cmd
}

func newPropertyUpdateCmd() *cobra.Command {
	var f propertyFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a listing",
		Long:  "Update the given fields of a listing. Only the owner or an admin may update it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, release, err := openTab(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			id := args[0]
			current, ok := tab.Properties.GetByID(id, "")
			if !ok {
				return fmt.Errorf("property %s not found", id)
			}
			patch, err := f.patch(cmd.Flags(), current)
			if err != nil {
				return err
			}

			who := identity()
			if !tab.Properties.Update(id, patch, who.UserID, who.Role) {
				return fmt.Errorf("property %s could not be updated by %q", id, who.UserID)
			}

			updated, _ := tab.Properties.GetByID(id, "")
			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, updated)
			}
			printPropertySummary(out, catalog.FromRecord(updated))
			return nil
		},
	}

	f.register(cmd.Flags())

	return cmd
}
