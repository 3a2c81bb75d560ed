package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/talkform/talkform/internal/model"
)

// PromptRepo provides access to the prompts table and its per-kind
// companion tables (text_prompts, binary_prompts,
// ranged_prompt_options).  A prompt row is only meaningful together
// with its kind payload, so every read resolves the concrete variant:
// the base row carries the prompt_type discriminant and the matching
// detail is attached before a prompt leaves this package.
//
// Creation and enabling run inside a critical section keyed by the
// feedback form: all of the form's prompt rows are locked with FOR
// UPDATE before the enabled count and the next order are read, so two
// concurrent writers can neither exceed the enabled-prompt ceiling nor
// compute the same order.
type PromptRepo struct{ DB *sql.DB }

func NewPromptRepo(db *sql.DB) *PromptRepo { return &PromptRepo{DB: db} }

const promptSelect = `SELECT p.id, p.feedback_form_id, p.prompt_type, p.text, p.display_order,
       p.disabled_at, p.disabled_by, p.created_at, p.updated_at,
       tp.max_length, bp.positive_answer_label, bp.negative_answer_label
FROM prompts p
LEFT JOIN text_prompts tp ON tp.prompt_id = p.id
LEFT JOIN binary_prompts bp ON bp.prompt_id = p.id`

func scanPrompt(row interface{ Scan(...any) error }) (model.Prompt, error) {
    var p model.Prompt
    var disabledAt sql.NullTime
    var disabledBy sql.NullInt64
    var maxLength sql.NullInt64
    var posLabel, negLabel sql.NullString
    err := row.Scan(&p.ID, &p.FeedbackFormID, &p.Kind, &p.Text, &p.Order,
        &disabledAt, &disabledBy, &p.CreatedAt, &p.UpdatedAt,
        &maxLength, &posLabel, &negLabel)
    if err != nil {
        return p, err
    }
    if disabledAt.Valid {
        t := disabledAt.Time
        p.DisabledAt = &t
    }
    if disabledBy.Valid {
        id := uint64(disabledBy.Int64)
        p.DisabledBy = &id
    }
    switch p.Kind {
    case model.PromptKindText:
        detail := &model.TextPromptDetail{MaxLength: model.DefaultTextMaxLength}
        if maxLength.Valid {
            detail.MaxLength = uint32(maxLength.Int64)
        }
        p.TextDetail = detail
    case model.PromptKindBinary:
        p.BinaryDetail = &model.BinaryPromptDetail{
            PositiveAnswerLabel: posLabel.String,
            NegativeAnswerLabel: negLabel.String,
        }
    case model.PromptKindRanged:
        p.RangedDetail = &model.RangedPromptDetail{}
    }
    return p, nil
}

// Create inserts a prompt together with its kind payload.  The whole
// read-check-write sequence runs in one transaction:
//
//  1. lock the form's prompt rows,
//  2. verify the enabled count stays under the ceiling,
//  3. assign the next order,
//  4. insert the base row and the kind-specific rows.
//
// The prompt's Order field is overwritten with the assigned value.  A
// full form surfaces as ErrPromptLimit, duplicate ranged option labels
// or values as ErrDuplicateOption.
func (r *PromptRepo) Create(ctx context.Context, p *model.Prompt) error {
    tx, err := r.DB.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    enabled, maxOrder, err := lockFormPrompts(ctx, tx, p.FeedbackFormID)
    if err != nil {
        return err
    }
    if enabled >= model.MaxEnabledPrompts {
        return ErrPromptLimit
    }
    p.Order = maxOrder + 1

    res, err := tx.ExecContext(ctx,
        "INSERT INTO prompts (feedback_form_id, prompt_type, text, display_order) VALUES (?,?,?,?)",
        p.FeedbackFormID, p.Kind, p.Text, p.Order)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    p.ID = uint64(id)

    switch p.Kind {
    case model.PromptKindText:
        maxLen := uint32(model.DefaultTextMaxLength)
        if p.TextDetail != nil {
            maxLen = p.TextDetail.MaxLength
        }
        if _, err := tx.ExecContext(ctx,
            "INSERT INTO text_prompts (prompt_id, max_length) VALUES (?,?)", p.ID, maxLen); err != nil {
            return err
        }
        p.TextDetail = &model.TextPromptDetail{MaxLength: maxLen}
    case model.PromptKindBinary:
        pos, neg := "Yes", "No"
        if p.BinaryDetail != nil {
            if p.BinaryDetail.PositiveAnswerLabel != "" {
                pos = p.BinaryDetail.PositiveAnswerLabel
            }
            if p.BinaryDetail.NegativeAnswerLabel != "" {
                neg = p.BinaryDetail.NegativeAnswerLabel
            }
        }
        if _, err := tx.ExecContext(ctx,
            "INSERT INTO binary_prompts (prompt_id, positive_answer_label, negative_answer_label) VALUES (?,?,?)",
            p.ID, pos, neg); err != nil {
            return err
        }
        p.BinaryDetail = &model.BinaryPromptDetail{PositiveAnswerLabel: pos, NegativeAnswerLabel: neg}
    case model.PromptKindRanged:
        if p.RangedDetail == nil {
            p.RangedDetail = &model.RangedPromptDetail{}
        }
        for i := range p.RangedDetail.Options {
            opt := &p.RangedDetail.Options[i]
            opt.PromptID = p.ID
            res, err := tx.ExecContext(ctx,
                "INSERT INTO ranged_prompt_options (prompt_id, label, value) VALUES (?,?,?)",
                p.ID, opt.Label, opt.Value)
            if err != nil {
                if isDuplicateKey(err) {
                    return ErrDuplicateOption
                }
                return err
            }
            oid, err := res.LastInsertId()
            if err != nil {
                return err
            }
            opt.ID = uint64(oid)
        }
    }

    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// lockFormPrompts locks every prompt row of the form and returns the
// current enabled count and the highest order in use.  Orders are
// assigned from the all-time maximum, never reused, which keeps them
// unique within the enabled set without a database constraint.
func lockFormPrompts(ctx context.Context, tx *sql.Tx, formID uint64) (enabled int, maxOrder uint32, err error) {
    rows, err := tx.QueryContext(ctx,
        "SELECT display_order, disabled_at FROM prompts WHERE feedback_form_id=? FOR UPDATE", formID)
    if err != nil {
        return 0, 0, err
    }
    defer rows.Close()
    for rows.Next() {
        var order uint32
        var disabledAt sql.NullTime
        if err := rows.Scan(&order, &disabledAt); err != nil {
            return 0, 0, err
        }
        if !disabledAt.Valid {
            enabled++
        }
        if order > maxOrder {
            maxOrder = order
        }
    }
    return enabled, maxOrder, rows.Err()
}

// GetByID returns a prompt with its concrete variant resolved, or
// sql.ErrNoRows.
func (r *PromptRepo) GetByID(ctx context.Context, id uint64) (model.Prompt, error) {
    p, err := scanPrompt(r.DB.QueryRowContext(ctx, promptSelect+" WHERE p.id=?", id))
    if err != nil {
        return p, err
    }
    return p, r.attachOptions(ctx, []*model.Prompt{&p})
}

// ListByForm returns the form's prompts ordered by their submission
// order, each with its concrete variant resolved.  When enabledOnly is
// set, disabled prompts are skipped.
func (r *PromptRepo) ListByForm(ctx context.Context, formID uint64, enabledOnly bool) ([]model.Prompt, error) {
    q := promptSelect + " WHERE p.feedback_form_id=?"
    if enabledOnly {
        q += " AND p.disabled_at IS NULL"
    }
    q += " ORDER BY p.display_order"
    rows, err := r.DB.QueryContext(ctx, q, formID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Prompt, 0)
    for rows.Next() {
        p, err := scanPrompt(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, p)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    refs := make([]*model.Prompt, len(out))
    for i := range out {
        refs[i] = &out[i]
    }
    return out, r.attachOptions(ctx, refs)
}

// attachOptions loads the option sets of every ranged prompt in the
// slice with a single query.
func (r *PromptRepo) attachOptions(ctx context.Context, prompts []*model.Prompt) error {
    index := make(map[uint64]*model.Prompt)
    ids := make([]interface{}, 0, len(prompts))
    placeholders := make([]string, 0, len(prompts))
    for _, p := range prompts {
        if p.Kind != model.PromptKindRanged {
            continue
        }
        index[p.ID] = p
        ids = append(ids, p.ID)
        placeholders = append(placeholders, "?")
    }
    if len(ids) == 0 {
        return nil
    }
    q := `SELECT id, prompt_id, label, value FROM ranged_prompt_options
          WHERE prompt_id IN (` + strings.Join(placeholders, ",") + `)
          ORDER BY prompt_id, value`
    rows, err := r.DB.QueryContext(ctx, q, ids...)
    if err != nil {
        return err
    }
    defer rows.Close()
    for rows.Next() {
        var o model.RangedPromptOption
        if err := rows.Scan(&o.ID, &o.PromptID, &o.Label, &o.Value); err != nil {
            return err
        }
        p := index[o.PromptID]
        if p.RangedDetail == nil {
            p.RangedDetail = &model.RangedPromptDetail{}
        }
        p.RangedDetail.Options = append(p.RangedDetail.Options, o)
    }
    return rows.Err()
}

// UpdateText changes the prompt's question text and, for text prompts,
// its answer length limit.  Neither touches order or the enabled
// count, so no critical section is needed.
func (r *PromptRepo) UpdateText(ctx context.Context, id uint64, text string, maxLength *uint32) error {
    if _, err := r.DB.ExecContext(ctx, "UPDATE prompts SET text=? WHERE id=?", text, id); err != nil {
        return err
    }
    if maxLength != nil {
        if _, err := r.DB.ExecContext(ctx,
            "UPDATE text_prompts SET max_length=? WHERE prompt_id=?", *maxLength, id); err != nil {
            return err
        }
    }
    return nil
}

// UpdateBinaryLabels changes a binary prompt's answer labels.
func (r *PromptRepo) UpdateBinaryLabels(ctx context.Context, id uint64, positive, negative string) error {
    _, err := r.DB.ExecContext(ctx,
        "UPDATE binary_prompts SET positive_answer_label=?, negative_answer_label=? WHERE prompt_id=?",
        positive, negative, id)
    return err
}

// SetDisabled toggles a prompt's enabled state.  Enabling re-enters
// the form's critical section because it raises the enabled count; a
// form already at the ceiling surfaces as ErrPromptLimit.  Disabling
// needs no lock.
func (r *PromptRepo) SetDisabled(ctx context.Context, id uint64, disabled bool, byUserID uint64) error {
    if disabled {
        _, err := r.DB.ExecContext(ctx,
            "UPDATE prompts SET disabled_at=?, disabled_by=? WHERE id=? AND disabled_at IS NULL",
            time.Now().UTC(), byUserID, id)
        return err
    }

    tx, err := r.DB.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var formID uint64
    var disabledAt sql.NullTime
    err = tx.QueryRowContext(ctx,
        "SELECT feedback_form_id, disabled_at FROM prompts WHERE id=? FOR UPDATE", id).
        Scan(&formID, &disabledAt)
    if err != nil {
        return err
    }
    if !disabledAt.Valid {
        // already enabled
        return tx.Commit()
    }
    enabled, _, err := lockFormPrompts(ctx, tx, formID)
    if err != nil {
        return err
    }
    if enabled >= model.MaxEnabledPrompts {
        return ErrPromptLimit
    }
    if _, err := tx.ExecContext(ctx,
        "UPDATE prompts SET disabled_at=NULL, disabled_by=NULL WHERE id=?", id); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// AddOption appends an option to a ranged prompt.  Non-ranged prompts
// are rejected with ErrConflict, duplicate labels or values with
// ErrDuplicateOption.
func (r *PromptRepo) AddOption(ctx context.Context, o *model.RangedPromptOption) error {
    var kind model.PromptKind
    err := r.DB.QueryRowContext(ctx,
        "SELECT prompt_type FROM prompts WHERE id=?", o.PromptID).Scan(&kind)
    if err != nil {
        return err
    }
    if kind != model.PromptKindRanged {
        return ErrConflict
    }
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO ranged_prompt_options (prompt_id, label, value) VALUES (?,?,?)",
        o.PromptID, o.Label, o.Value)
    if err != nil {
        if isDuplicateKey(err) {
            return ErrDuplicateOption
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    o.ID = uint64(id)
    return nil
}
